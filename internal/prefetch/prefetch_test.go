package prefetch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRankDirsHottestFirst(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 5; i++ {
		tr.Record("/src/hot/a.html")
	}
	tr.Record("/src/hot/b.html")
	tr.Record("/src/warm/c.html")
	tr.Record("/src/warm/d.html")
	tr.Record("/src/cold/e.html")

	require.Equal(t, []string{"/src/hot", "/src/warm", "/src/cold"}, tr.RankDirs(10))
	require.Equal(t, []string{"/src/hot"}, tr.RankDirs(1))
}

func TestRankDirsDeterministicTieBreak(t *testing.T) {
	tr := NewTracker()
	tr.Record("/src/b/x.html")
	tr.Record("/src/a/y.html")

	require.Equal(t, []string{"/src/a", "/src/b"}, tr.RankDirs(2))
}

func TestChangeRate(t *testing.T) {
	tr := NewTracker()
	require.Zero(t, tr.ChangeRate())

	tr.Record("/src/a.html")
	tr.Record("/src/a.html")
	tr.Record("/src/b.html")
	require.InDelta(t, 1.5, tr.ChangeRate(), 0.001)
}

func TestRankDirsEmpty(t *testing.T) {
	require.Empty(t, NewTracker().RankDirs(3))
}
