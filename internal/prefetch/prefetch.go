// Package prefetch ranks source directories by how often their files
// change, so the engine can preload the cache blobs most likely to be
// needed next. It is a pure priority-scoring collaborator: the engine is
// fully correct with prefetching disabled.
package prefetch

import (
	"container/heap"
	"path/filepath"
	"sync"
)

// Tracker accumulates per-path change counts.
type Tracker struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{counts: make(map[string]int)}
}

// Record notes one change for path.
func (t *Tracker) Record(path string) {
	t.mu.Lock()
	t.counts[path]++
	t.mu.Unlock()
}

// ChangeRate returns the mean change count across all tracked paths.
// The watcher uses it to adapt its debounce window.
func (t *Tracker) ChangeRate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.counts) == 0 {
		return 0
	}
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return float64(total) / float64(len(t.counts))
}

// RankDirs returns up to limit distinct directories ordered by the total
// change count of their files, hottest first. Ties break on path order so
// the ranking is deterministic.
func (t *Tracker) RankDirs(limit int) []string {
	t.mu.Lock()
	byDir := make(map[string]int)
	for path, c := range t.counts {
		byDir[filepath.Dir(path)] += c
	}
	t.mu.Unlock()

	h := &dirHeap{}
	for dir, c := range byDir {
		heap.Push(h, dirCount{dir: dir, count: c})
	}

	out := make([]string, 0, limit)
	for h.Len() > 0 && len(out) < limit {
		out = append(out, heap.Pop(h).(dirCount).dir)
	}
	return out
}

type dirCount struct {
	dir   string
	count int
}

type dirHeap []dirCount

func (h dirHeap) Len() int { return len(h) }
func (h dirHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count > h[j].count
	}
	return h[i].dir < h[j].dir
}
func (h dirHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *dirHeap) Push(x interface{}) { *h = append(*h, x.(dirCount)) }
func (h *dirHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
