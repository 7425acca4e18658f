package dxstyles

import (
	"runtime"
	"time"

	"github.com/yacobolo/dxstyles/internal/watch"
)

// Config holds engine configuration.
type Config struct {
	SourceDir     string        // root of the component tree, e.g. "src"
	Includes      []string      // glob patterns relative to SourceDir
	Output        string        // stylesheet path, e.g. "styles.css"
	CacheDir      string        // directory holding per-directory cache blobs
	TriggerClass  string        // sentinel class enabling id management
	RewriteIDs    bool          // write managed ids back into source files
	ExpandGroups  bool          // expand the grouped-class notation
	Debounce      time.Duration // change batching window
	Workers       int           // initial scan parallelism
	PrefetchLimit int           // max directories preloaded per prefetch pass
	Verbose       bool          // enable progress logging
	Quiet         bool          // suppress all output (exit code only)
	UseColors     bool          // force color output
}

// withDefaults fills the zero values with the documented defaults.
func (c Config) withDefaults() Config {
	if c.SourceDir == "" {
		c.SourceDir = "src"
	}
	if len(c.Includes) == 0 {
		c.Includes = []string{"**/*.html"}
	}
	if c.Output == "" {
		c.Output = "styles.css"
	}
	if c.CacheDir == "" {
		c.CacheDir = ".dxstyles-cache"
	}
	if c.TriggerClass == "" {
		c.TriggerClass = "group"
	}
	if c.Debounce <= 0 {
		c.Debounce = watch.DefaultDebounce
	}
	if c.Workers <= 0 {
		// Leave some cores for the editor and dev server.
		c.Workers = (runtime.NumCPU()*3 + 3) / 4
	}
	if c.PrefetchLimit <= 0 {
		c.PrefetchLimit = 10
	}
	return c
}

// ScanStats tracks file discovery statistics.
type ScanStats struct {
	FilesDiscovered int // total files matched by the include patterns
	FilesScanned    int // files entering the pipeline (after filtering)
	FilesSkipped    int // files dropped by gitignore/temp filtering
}

// FileReport describes the outcome for one file in a batch.
type FileReport struct {
	Path      string
	CacheHit  bool  // derived data reused, parser not invoked
	Spliced   bool  // differential rescan of changed spans only
	Rewritten bool  // source file rewritten with managed ids/bindings
	Added     int   // names this file newly contributes
	Removed   int   // names this file stopped contributing
	Err       error // per-file failure; never aborts the batch
}

// BatchResult is the outcome of processing one batch of changed paths.
type BatchResult struct {
	Reports           []FileReport
	Delta             SetDelta
	StylesheetWritten bool
	Duration          time.Duration
}
