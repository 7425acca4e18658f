package stylesheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func set(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

func TestRenderSortedSkeleton(t *testing.T) {
	out := Render(set("flex", "btn", "card"), set("F2", "F1"))

	require.Equal(t, ".btn {}\n.card {}\n.flex {}\n#F1 {}\n#F2 {}\n", string(out))
}

func TestRenderEmptySets(t *testing.T) {
	require.Empty(t, Render(set(), set()))
}

func TestWriteSkipsIdenticalContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.css")

	wrote, err := Write(path, set("btn"), set("F"))
	require.NoError(t, err)
	require.True(t, wrote)

	info1, err := os.Stat(path)
	require.NoError(t, err)

	wrote, err = Write(path, set("btn"), set("F"))
	require.NoError(t, err)
	require.False(t, wrote)

	info2, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, info1.ModTime(), info2.ModTime())
}

func TestWriteRewritesOnDelta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.css")

	_, err := Write(path, set("btn"), set())
	require.NoError(t, err)

	wrote, err := Write(path, set("btn", "card"), set())
	require.NoError(t, err)
	require.True(t, wrote)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, ".btn {}\n.card {}\n", string(content))
}

func TestReadExistingRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.css")

	classes := set("btn", "card", "flex-wrap")
	ids := set("F1", "G")
	_, err := Write(path, classes, ids)
	require.NoError(t, err)

	gotClasses, gotIDs, err := ReadExisting(path)
	require.NoError(t, err)
	require.Equal(t, classes, gotClasses)
	require.Equal(t, ids, gotIDs)
}

func TestReadExistingMissingFile(t *testing.T) {
	classes, ids, err := ReadExisting(filepath.Join(t.TempDir(), "absent.css"))
	require.NoError(t, err)
	require.Empty(t, classes)
	require.Empty(t, ids)
}
