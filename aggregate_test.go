package dxstyles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyBatchUnionsContributions(t *testing.T) {
	g := NewGlobalSet()

	_, after := g.ApplyBatch(map[string]*Contribution{
		"a.html": {Classes: []string{"btn", "flex"}, IDs: []string{"F"}},
		"b.html": {Classes: []string{"flex", "grid"}},
	})

	require.Equal(t, map[string]struct{}{
		"btn": {}, "flex": {}, "grid": {},
	}, after.Classes)
	require.Equal(t, map[string]struct{}{"F": {}}, after.IDs)
}

func TestApplyBatchRemovalShrinksTotals(t *testing.T) {
	g := NewGlobalSet()
	g.ApplyBatch(map[string]*Contribution{
		"a.html": {Classes: []string{"btn"}},
		"b.html": {Classes: []string{"btn", "grid"}},
	})

	before, after := g.ApplyBatch(map[string]*Contribution{"b.html": nil})
	d := ComputeDelta(before, after)

	// "btn" survives through a.html; only "grid" leaves the totals.
	require.Empty(t, d.AddedClasses)
	require.Equal(t, []string{"grid"}, d.RemovedClasses)
}

func TestApplyBatchReplacementIsAtomic(t *testing.T) {
	g := NewGlobalSet()
	g.ApplyBatch(map[string]*Contribution{
		"a.html": {Classes: []string{"old"}},
	})

	before, after := g.ApplyBatch(map[string]*Contribution{
		"a.html": {Classes: []string{"new"}},
	})

	// The pre-swap snapshot stays intact for readers that hold it.
	require.Contains(t, before.Classes, "old")
	require.NotContains(t, before.Classes, "new")
	require.Contains(t, after.Classes, "new")
	require.NotContains(t, after.Classes, "old")
}

func TestComputeDeltaEmptyForIdenticalSnapshots(t *testing.T) {
	g := NewGlobalSet()
	g.ApplyBatch(map[string]*Contribution{
		"a.html": {Classes: []string{"btn"}, IDs: []string{"B"}},
	})

	before, after := g.ApplyBatch(map[string]*Contribution{
		"a.html": {Classes: []string{"btn"}, IDs: []string{"B"}},
	})

	require.True(t, ComputeDelta(before, after).Empty())
}

func TestComputeDeltaSorted(t *testing.T) {
	before := emptySnapshot()
	after := &Snapshot{
		Classes: map[string]struct{}{"zeta": {}, "alpha": {}, "mid": {}},
		IDs:     map[string]struct{}{"Z": {}, "A": {}},
	}

	d := ComputeDelta(before, after)
	require.Equal(t, []string{"alpha", "mid", "zeta"}, d.AddedClasses)
	require.Equal(t, []string{"A", "Z"}, d.AddedIDs)
	require.Equal(t, 5, d.Added())
	require.Equal(t, 0, d.Removed())
}
