package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSaveLoadRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	cacheDir := t.TempDir()

	a := writeFixture(t, srcDir, "a.html", `<div class="btn"></div>`)
	b := writeFixture(t, srcDir, "b.html", `<span id="x"></span>`)

	entries := map[string]Entry{
		a: {
			Hash:    HashBytes([]byte(`<div class="btn"></div>`)),
			Classes: []string{"btn"},
			Lines:   []Line{{Text: `<div class="btn"></div>`, Classes: []string{"btn"}}},
		},
		b: {
			Hash: HashBytes([]byte(`<span id="x"></span>`)),
			IDs:  []string{"x"},
		},
	}

	require.NoError(t, SaveDir(cacheDir, srcDir, entries))

	loaded, err := LoadDir(cacheDir, srcDir)
	require.NoError(t, err)
	require.Equal(t, entries, loaded)
}

func TestLoadDirMissingBlob(t *testing.T) {
	loaded, err := LoadDir(t.TempDir(), "/nowhere")
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestLoadDirPrunesDeletedFiles(t *testing.T) {
	srcDir := t.TempDir()
	cacheDir := t.TempDir()

	a := writeFixture(t, srcDir, "a.html", "x")
	gone := filepath.Join(srcDir, "gone.html")

	entries := map[string]Entry{
		a:    {Hash: 1},
		gone: {Hash: 2},
	}
	require.NoError(t, SaveDir(cacheDir, srcDir, entries))

	loaded, err := LoadDir(cacheDir, srcDir)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Contains(t, loaded, a)
}

func TestLoadDirCorruptBlobDiscarded(t *testing.T) {
	srcDir := t.TempDir()
	cacheDir := t.TempDir()

	a := writeFixture(t, srcDir, "a.html", "x")
	require.NoError(t, SaveDir(cacheDir, srcDir, map[string]Entry{a: {Hash: 1}}))

	// Truncate the blob so decompression or the checksum fails.
	blobPath := filepath.Join(cacheDir, BlobName(srcDir))
	raw, err := os.ReadFile(blobPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(blobPath, raw[:len(raw)/2], 0o644))

	_, err = LoadDir(cacheDir, srcDir)
	require.ErrorIs(t, err, ErrCorrupt)

	// Recovery path: remove the blob and start clean.
	require.NoError(t, RemoveBlob(cacheDir, srcDir))
	loaded, err := LoadDir(cacheDir, srcDir)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestBlobNameStablePerDirectory(t *testing.T) {
	require.Equal(t, BlobName("/src/app"), BlobName("/src/app"))
	require.NotEqual(t, BlobName("/src/app"), BlobName("/src/lib"))
}
