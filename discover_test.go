package dxstyles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestDiscoverFilesMatchesPatternsRecursively(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"index.html":          "<div></div>",
		"app/header.html":     "<div></div>",
		"app/nav/menu.html":   "<div></div>",
		"app/readme.txt":      "not markup",
		"app/header.html.tmp": "editor artifact",
	})

	files, stats, err := DiscoverFiles(src, []string{"**/*.html"})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(src, "app/header.html"),
		filepath.Join(src, "app/nav/menu.html"),
		filepath.Join(src, "index.html"),
	}, files)
	require.Equal(t, 3, stats.FilesScanned)
	require.Equal(t, 0, stats.FilesSkipped)
}

func TestDiscoverFilesSkipsTransientArtifacts(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"page.html":    "<div></div>",
		"page.html~":   "backup",
		".#page.html":  "lock",
		"#page.html#":  "autosave",
	})

	// The backup/lock names only count when a pattern reaches them.
	files, stats, err := DiscoverFiles(src, []string{"**/*"})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(src, "page.html")}, files)
	require.Equal(t, 3, stats.FilesSkipped)
}

func TestDiscoverFilesHonorsGitignore(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		".gitignore":          "generated/\n",
		"page.html":           "<div></div>",
		"generated/out.html":  "<div></div>",
	})

	files, stats, err := DiscoverFiles(src, []string{"**/*.html"})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(src, "page.html")}, files)
	require.Equal(t, 1, stats.FilesSkipped)
}

func TestDiscoverFilesDeduplicatesOverlappingPatterns(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"page.html": "<div></div>"})

	files, stats, err := DiscoverFiles(src, []string{"**/*.html", "*.html"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, 1, stats.FilesDiscovered)
}

func TestUniqueDirs(t *testing.T) {
	dirs := uniqueDirs([]string{
		"src/app/a.html",
		"src/app/b.html",
		"src/index.html",
	})
	require.Equal(t, []string{"src", "src/app"}, dirs)
}
