package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .dxstyles.yaml config file",
	Long:  `Create a .dxstyles.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".dxstyles.yaml"); err == nil && !force {
			return fmt.Errorf(".dxstyles.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".dxstyles.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created .dxstyles.yaml")
		return nil
	},
}

const defaultConfig = `# dxstyles configuration
# Docs: https://github.com/yacobolo/dxstyles

# Shared settings
verbose: false
quiet: false

# Scan settings
scan:
  source: src
  include:
    - "**/*.html"
  output: styles.css
  cache-dir: .dxstyles-cache
  workers: 0               # 0 = auto

# Identifier rewriting
rewrite:
  trigger-class: group
  ids: true
  expand-groups: true

# Watch settings
watch:
  debounce: 150ms
  prefetch-limit: 10
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
