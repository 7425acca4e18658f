package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashBytesDiffers(t *testing.T) {
	a := HashBytes([]byte("content a"))
	b := HashBytes([]byte("content b"))
	require.NotEqual(t, a, b)
	require.Equal(t, a, HashBytes([]byte("content a")))
}

func TestStoreLookupValidOnlyOnHashMatch(t *testing.T) {
	s := NewStore()
	content := []byte(`<div class="btn"></div>`)
	hash := HashBytes(content)

	s.Put("/src/a.html", Entry{Hash: hash, Classes: []string{"btn"}})

	e, ok := s.Lookup("/src/a.html", hash)
	require.True(t, ok)
	require.Equal(t, []string{"btn"}, e.Classes)

	// Stale entry is a miss, never served.
	_, ok = s.Lookup("/src/a.html", HashBytes([]byte("changed")))
	require.False(t, ok)

	_, ok = s.Lookup("/src/missing.html", hash)
	require.False(t, ok)
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	s.Put("/src/a.html", Entry{Hash: 1})
	s.Remove("/src/a.html")
	require.Zero(t, s.Len())
}

func TestStoreEntriesInDir(t *testing.T) {
	s := NewStore()
	s.Put("/src/a.html", Entry{Hash: 1})
	s.Put("/src/b.html", Entry{Hash: 2})
	s.Put("/src/nested/c.html", Entry{Hash: 3})

	entries := s.EntriesInDir("/src")
	require.Len(t, entries, 2)
	require.Contains(t, entries, "/src/a.html")
	require.Contains(t, entries, "/src/b.html")
}

func TestDiffLinesUnchangedMapping(t *testing.T) {
	oldLines := []string{"a", "b", "c", "d"}
	newLines := []string{"a", "X", "c", "d"}

	d := DiffLines(oldLines, newLines)
	require.True(t, d.Splicable())
	require.Equal(t, []Span{{Start: 1, End: 2}}, d.Spans)
	require.Equal(t, 0, d.Unchanged[0])
	require.Equal(t, 2, d.Unchanged[2])
	require.Equal(t, 3, d.Unchanged[3])
	_, changed := d.Unchanged[1]
	require.False(t, changed)
}

func TestDiffLinesLowSimilarityNotSplicable(t *testing.T) {
	oldLines := []string{"a", "b", "c", "d"}
	newLines := []string{"w", "x", "y", "z"}

	d := DiffLines(oldLines, newLines)
	require.False(t, d.Splicable())
}

func TestDiffLinesInsertion(t *testing.T) {
	oldLines := []string{"a", "b"}
	newLines := []string{"a", "new", "b"}

	d := DiffLines(oldLines, newLines)
	require.Equal(t, []Span{{Start: 1, End: 2}}, d.Spans)
	require.Equal(t, 0, d.Unchanged[0])
	require.Equal(t, 1, d.Unchanged[2])
}
