package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yacobolo/dxstyles"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the component tree and keep the stylesheet in sync",
	Long: `Run an initial scan, then watch for file changes and process each
debounced batch incrementally. Stops on SIGINT or SIGTERM.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.String("source", "src", "Component source directory")
	f.StringSlice("include", nil, "Glob patterns for component files")
	f.String("output", "styles.css", "Generated stylesheet path")
	f.String("cache-dir", ".dxstyles-cache", "Directory for persisted cache blobs")
	f.String("trigger-class", "group", "Class that marks an element as managed")
	f.Bool("rewrite-ids", true, "Write managed ids back into source files")
	f.Bool("expand-groups", true, "Expand grouped class notation prefix(a+b+c)")
	f.Duration("debounce", 150*time.Millisecond, "Change batching window")
	f.Int("workers", 0, "Scan parallelism (0 = auto)")
	f.Int("prefetch-limit", 10, "Max directories preloaded per prefetch pass")
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg := buildConfig()

	eng, err := dxstyles.NewEngine(cfg)
	if err != nil {
		return err
	}
	reporter := dxstyles.NewReporter(os.Stdout, eng.Config())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, stats, err := eng.InitialScan(ctx)
	if err != nil {
		return err
	}
	reporter.PrintScanSummary(res, stats)

	return eng.Watch(ctx, reporter.PrintBatch)
}
