// Package main provides the dxstyles CLI tool: an incremental watcher
// that keeps a stylesheet skeleton in sync with HTML component files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dxstyles: %v\n", err)
		os.Exit(1)
	}
}
