package dxstyles

import (
	"sort"
	"sync"
)

// Contribution is the class/id set one file adds to the project totals.
type Contribution struct {
	Classes []string
	IDs     []string
}

// Snapshot is an immutable view of the project-wide totals. Readers may
// hold a snapshot indefinitely; the global set never mutates a published
// snapshot, it swaps in a rebuilt one.
type Snapshot struct {
	Classes map[string]struct{}
	IDs     map[string]struct{}
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Classes: map[string]struct{}{},
		IDs:     map[string]struct{}{},
	}
}

// GlobalSet maintains per-file contributions and the union snapshot
// derived from them.
type GlobalSet struct {
	mu      sync.Mutex
	files   map[string]Contribution
	current *Snapshot
}

func NewGlobalSet() *GlobalSet {
	return &GlobalSet{
		files:   map[string]Contribution{},
		current: emptySnapshot(),
	}
}

// Current returns the latest published snapshot.
func (g *GlobalSet) Current() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Contribution returns the recorded contribution for path, if any.
func (g *GlobalSet) Contribution(path string) (Contribution, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.files[path]
	return c, ok
}

// ApplyBatch replaces the contribution of every path in updates (a nil
// contribution removes the path) and publishes a rebuilt snapshot. The
// whole batch lands in one critical section so intermediate states are
// never observable. Returns the snapshots before and after the swap.
func (g *GlobalSet) ApplyBatch(updates map[string]*Contribution) (before, after *Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	before = g.current
	for path, contrib := range updates {
		if contrib == nil {
			delete(g.files, path)
			continue
		}
		g.files[path] = *contrib
	}

	after = emptySnapshot()
	for _, contrib := range g.files {
		for _, c := range contrib.Classes {
			after.Classes[c] = struct{}{}
		}
		for _, id := range contrib.IDs {
			after.IDs[id] = struct{}{}
		}
	}
	g.current = after
	return before, after
}

// SetDelta lists the names that appeared in or disappeared from the
// project totals between two snapshots.
type SetDelta struct {
	AddedClasses   []string
	RemovedClasses []string
	AddedIDs       []string
	RemovedIDs     []string
}

// Empty reports whether the two snapshots were identical.
func (d SetDelta) Empty() bool {
	return len(d.AddedClasses) == 0 && len(d.RemovedClasses) == 0 &&
		len(d.AddedIDs) == 0 && len(d.RemovedIDs) == 0
}

// Added and Removed return combined counts for reporting.
func (d SetDelta) Added() int   { return len(d.AddedClasses) + len(d.AddedIDs) }
func (d SetDelta) Removed() int { return len(d.RemovedClasses) + len(d.RemovedIDs) }

// ComputeDelta compares two snapshots. All slices come back sorted.
func ComputeDelta(before, after *Snapshot) SetDelta {
	return SetDelta{
		AddedClasses:   missingFrom(after.Classes, before.Classes),
		RemovedClasses: missingFrom(before.Classes, after.Classes),
		AddedIDs:       missingFrom(after.IDs, before.IDs),
		RemovedIDs:     missingFrom(before.IDs, after.IDs),
	}
}

// missingFrom returns the members of a that b lacks, sorted.
func missingFrom(a, b map[string]struct{}) []string {
	var out []string
	for name := range a {
		if _, ok := b[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
