package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/app.html", false},
		{"src/app.html.tmp", true},
		{"src/.app.html.swp", true},
		{"src/.app.html.swx", true},
		{"src/app.html~", true},
		{"src/.#app.html", true},
		{"src/#app.html#", true},
		{"src/tmp-not-suffix.html", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, IsTransient(tt.path))
		})
	}
}

func TestAdaptiveInterval(t *testing.T) {
	// Idle tree: clamped to the maximum window.
	require.Equal(t, MaxInterval, AdaptiveInterval(0))
	// Very busy tree: clamped to the minimum window.
	require.Equal(t, MinInterval, AdaptiveInterval(100))
	// In-between rates shrink monotonically.
	mid := AdaptiveInterval(3)
	require.Less(t, mid, MaxInterval)
	require.Greater(t, mid, MinInterval)
	require.Greater(t, AdaptiveInterval(2), AdaptiveInterval(8))
}

func TestWatcherBatchesChanges(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{dir}, Options{
		Debounce:   50 * time.Millisecond,
		Extensions: []string{".html"},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	tracked := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(tracked, []byte(`<div class="a"></div>`), 0o644))
	// Untracked extension and editor artifacts must not appear in batches.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html.tmp"), []byte("x"), 0o644))

	select {
	case batch := <-w.Batches():
		require.Equal(t, []string{tracked}, batch)
	case <-time.After(3 * time.Second):
		t.Fatal("no batch received")
	}
}

func TestWatcherReportsDeletions(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(tracked, []byte(`<div class="a"></div>`), 0o644))

	w, err := New([]string{dir}, Options{
		Debounce:   50 * time.Millisecond,
		Extensions: []string{".html"},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// A deleted file must reach the pipeline so its contribution can be
	// dropped from the totals.
	require.NoError(t, os.Remove(tracked))

	select {
	case batch := <-w.Batches():
		require.Equal(t, []string{tracked}, batch)
	case <-time.After(3 * time.Second):
		t.Fatal("no batch received for deletion")
	}
}

func TestWatcherDeduplicatesWithinWindow(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{dir}, Options{
		Debounce:   150 * time.Millisecond,
		Extensions: []string{".html"},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	tracked := filepath.Join(dir, "page.html")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(tracked, []byte(`<div></div>`), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case batch := <-w.Batches():
		require.Equal(t, []string{tracked}, batch)
	case <-time.After(3 * time.Second):
		t.Fatal("no batch received")
	}
}
