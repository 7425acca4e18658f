// Package watch turns raw file-system notifications into debounced batches
// of changed source paths. Editor save artifacts (temp and swap files) are
// filtered out before they ever reach the processing pipeline.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the batching window for change events. Editors tend
// to produce several writes per save; one pass per path per window is
// enough.
const DefaultDebounce = 150 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce   time.Duration // batching window, DefaultDebounce when zero
	Extensions []string      // tracked file extensions, e.g. [".html"]
}

// Watcher watches directory trees recursively and emits deduplicated
// batches of changed file paths.
type Watcher struct {
	fsw     *fsnotify.Watcher
	batches chan []string
	exts    map[string]bool

	mu       sync.Mutex
	debounce time.Duration
}

// New creates a watcher over the given root directories, watching every
// existing subdirectory. Directories created later are picked up from
// their create events.
func New(roots []string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fsw:      fsw,
		batches:  make(chan []string, 8),
		exts:     make(map[string]bool, len(opts.Extensions)),
		debounce: debounce,
	}
	for _, ext := range opts.Extensions {
		w.exts[ext] = true
	}

	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A directory vanishing mid-walk is not fatal to the watch.
			return nil
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// Batches returns the channel of debounced change batches. The channel is
// closed when Run returns.
func (w *Watcher) Batches() <-chan []string {
	return w.batches
}

// SetDebounce adjusts the batching window. Safe to call while Run is
// active; the next batch uses the new window.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	w.debounce = d
	w.mu.Unlock()
}

func (w *Watcher) currentDebounce() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.debounce
}

// Run consumes file-system events until ctx is done, flushing pending
// paths as one batch per debounce window.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.batches)
	defer w.fsw.Close()

	pending := make(map[string]struct{})
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.accept(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if flush == nil {
				flush = time.After(w.currentDebounce())
			}

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			// Watch errors are transient; keep watching.

		case <-flush:
			flush = nil
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			pending = make(map[string]struct{})

			select {
			case w.batches <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// accept filters one event: newly created directories extend the watch,
// tracked files pass when they are not editor artifacts. Removes pass
// through so downstream processing can drop the file's contribution.
func (w *Watcher) accept(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}

	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(ev.Name)
			return false
		}
	}

	if IsTransient(ev.Name) {
		return false
	}

	if len(w.exts) > 0 && !w.exts[filepath.Ext(ev.Name)] {
		return false
	}

	return true
}

// IsTransient reports whether a filename looks like an editor save
// artifact (temp, swap, backup) that must never enter the pipeline.
func IsTransient(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, ".tmp"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, "~"):
		return true
	case strings.HasPrefix(base, ".#"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
