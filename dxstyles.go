// Package dxstyles watches a tree of HTML component files, extracts the
// class names and ids they use and keeps a stylesheet skeleton in sync
// with the project-wide totals.
//
// Elements carrying the trigger class get deterministic managed ids
// derived from their class sets, written back into the source files.
// Grouped class notation prefix(a+b+c) is expanded into a class list with
// a named binding. Derived data is cached per directory so unchanged
// files never reparse across restarts.
//
// # One-shot scan
//
//	engine, err := dxstyles.NewEngine(dxstyles.Config{
//		SourceDir: "src",
//		Includes:  []string{"**/*.html"},
//		Output:    "styles.css",
//	})
//	result, stats, err := engine.InitialScan(ctx)
//
// # Watch mode
//
//	err = engine.Watch(ctx, func(res *dxstyles.BatchResult) {
//		reporter.PrintBatch(res)
//	})
//
// # CLI Tool
//
// dxstyles also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/dxstyles/cmd/dxstyles@latest
package dxstyles
