package dxstyles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles for batch reporting. Lipgloss automatically degrades
// colors based on terminal capabilities.
var (
	styleCyan   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleRed    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	styleYellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	styleGreen  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleGray   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Reporter prints batch outcomes in the one-line-per-change format.
type Reporter struct {
	w         io.Writer
	useColors bool
	verbose   bool
	quiet     bool
	output    string
}

// NewReporter creates a reporter for the given configuration.
func NewReporter(w io.Writer, cfg Config) *Reporter {
	return &Reporter{
		w:         w,
		useColors: shouldUseColors(cfg),
		verbose:   cfg.Verbose,
		quiet:     cfg.Quiet,
		output:    cfg.Output,
	}
}

// shouldUseColors determines if colors should be enabled.
func shouldUseColors(cfg Config) bool {
	// Explicit flag wins
	if cfg.UseColors {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

func (r *Reporter) render(style lipgloss.Style, text string) string {
	if !r.useColors {
		return text
	}
	return style.Render(text)
}

// PrintBatch prints one line per changed file in the form
//
//	src/app/header.html (+2, -1) -> styles.css (+2, -1) • 1.2ms
//
// Errors show on their own lines. Quiet mode suppresses everything.
func (r *Reporter) PrintBatch(res *BatchResult) {
	if r.quiet {
		return
	}

	for _, rep := range res.Reports {
		if rep.Err != nil {
			fmt.Fprintf(r.w, "%s %s: %v\n",
				r.render(styleYellow, "warn"), relPath(rep.Path), rep.Err)
			continue
		}
		if rep.CacheHit && !r.verbose {
			continue
		}
		fmt.Fprintf(r.w, "%s %s -> %s %s %s %s\n",
			r.render(styleYellow, relPath(rep.Path)),
			r.deltaPair(rep.Added, rep.Removed),
			r.render(styleCyan, r.output),
			r.deltaPair(res.Delta.Added(), res.Delta.Removed()),
			r.render(styleGray, "•"),
			r.render(styleGray, formatDuration(res.Duration)),
		)
	}
}

// PrintScanSummary prints the one-line initial scan summary.
func (r *Reporter) PrintScanSummary(res *BatchResult, stats ScanStats) {
	if r.quiet {
		return
	}

	if stats.FilesSkipped > 0 && r.verbose {
		fmt.Fprintf(r.w, "%s scanned %d files (skipped %d ignored/temp files)\n",
			r.render(styleGreen, "✓"), stats.FilesScanned, stats.FilesSkipped)
	}

	fmt.Fprintf(r.w, "%s %d files -> %s %s %s %s\n",
		r.render(styleGreen, "✓"),
		stats.FilesScanned,
		r.render(styleCyan, r.output),
		r.deltaPair(res.Delta.Added(), res.Delta.Removed()),
		r.render(styleGray, "•"),
		r.render(styleGray, formatDuration(res.Duration)),
	)

	for _, rep := range res.Reports {
		if rep.Err != nil {
			fmt.Fprintf(r.w, "%s %s: %v\n",
				r.render(styleYellow, "warn"), relPath(rep.Path), rep.Err)
		}
	}
}

// PrintError prints a fatal error line.
func (r *Reporter) PrintError(err error) {
	fmt.Fprintf(r.w, "%s %v\n", r.render(styleRed, "error:"), err)
}

func (r *Reporter) deltaPair(added, removed int) string {
	return fmt.Sprintf("(%s, %s)",
		r.render(styleGreen, fmt.Sprintf("+%d", added)),
		r.render(styleRed, fmt.Sprintf("-%d", removed)),
	)
}

// formatDuration renders sub-millisecond times in microseconds and the
// rest with one decimal of milliseconds.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

// relPath shortens a path relative to the working directory for display.
func relPath(absPath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return absPath
	}
	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}
	return rel
}
