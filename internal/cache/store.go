// Package cache maintains the content-addressed derived-data store:
// an in-memory path→entry map shared by all workers, plus per-directory
// persisted blobs (compressed, checksummed) and the line-diff helper that
// drives differential reparsing.
//
// An entry is trusted only while its stored content hash matches the live
// file's hash; a mismatch is an ordinary miss, never silently served.
package cache

import (
	"hash/fnv"
	"path/filepath"
	"sort"
	"sync"
)

// Line is one cached source line together with the class tokens and ids
// extracted from it. The per-line index is what lets an incremental update
// re-scan only changed spans and splice the rest.
type Line struct {
	Text    string
	Classes []string
	IDs     []string
}

// Entry is the persisted derived state for one source file.
type Entry struct {
	Hash    uint64 // fnv-64a of the raw file bytes
	Classes []string
	IDs     []string
	Lines   []Line
}

// HashBytes computes the fast non-cryptographic content hash used for
// cache keys.
func HashBytes(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// Store is the process-wide path→entry map. Workers compute entries
// locally and only take the lock to merge, so the critical sections stay
// short.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Lookup returns the entry for path only when its stored hash matches the
// given live hash. A stale entry is reported as a miss.
func (s *Store) Lookup(path string, hash uint64) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[path]
	if !ok || e.Hash != hash {
		return Entry{}, false
	}
	return e, true
}

// Get returns the entry for path regardless of freshness. The differ uses
// it to reach the previous line index before deciding on a partial rescan.
func (s *Store) Get(path string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[path]
	return e, ok
}

// Put stores or replaces the entry for path.
func (s *Store) Put(path string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[path] = e
}

// Remove drops the entry for path, if any.
func (s *Store) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, path)
}

// Len reports the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Paths returns all cached paths, sorted.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.entries))
	for p := range s.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// EntriesInDir returns a copy of all entries whose file lives directly in
// dir, keyed by path. Used to build the per-directory persistence blob.
func (s *Store) EntriesInDir(dir string) map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Entry)
	for p, e := range s.entries {
		if filepath.Dir(p) == dir {
			out[p] = e
		}
	}
	return out
}
