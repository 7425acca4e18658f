package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yacobolo/dxstyles"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan over the component tree and exit",
	Long: `Process every component file once, bring the stylesheet up to date
and exit. Useful for build pipelines and CI.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.String("source", "src", "Component source directory")
	f.StringSlice("include", nil, "Glob patterns for component files")
	f.String("output", "styles.css", "Generated stylesheet path")
	f.String("cache-dir", ".dxstyles-cache", "Directory for persisted cache blobs")
	f.String("trigger-class", "group", "Class that marks an element as managed")
	f.Bool("rewrite-ids", true, "Write managed ids back into source files")
	f.Bool("expand-groups", true, "Expand grouped class notation prefix(a+b+c)")
	f.Duration("debounce", 150*time.Millisecond, "Change batching window")
	f.Int("workers", 0, "Scan parallelism (0 = auto)")
	f.Bool("strict", false, "Exit 1 when any file fails to process (CI mode)")
}

func runScan(_ *cobra.Command, _ []string) error {
	cfg := buildConfig()

	eng, err := dxstyles.NewEngine(cfg)
	if err != nil {
		return err
	}
	reporter := dxstyles.NewReporter(os.Stdout, eng.Config())

	res, stats, err := eng.InitialScan(context.Background())
	if err != nil {
		return err
	}
	reporter.PrintScanSummary(res, stats)

	if getBoolWithFallback("strict", "scan.strict", false) {
		for _, rep := range res.Reports {
			if rep.Err != nil {
				os.Exit(1)
			}
		}
	}
	return nil
}
