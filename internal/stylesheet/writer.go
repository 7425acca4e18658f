// Package stylesheet renders the skeleton stylesheet (one empty rule per
// class and per identifier) and reads selector names back from an existing
// stylesheet so a restart with no source changes rewrites nothing.
package stylesheet

import (
	"bytes"
	"fmt"
	"os"
	"sort"
)

// Render produces the stylesheet text: sorted `.class {}` blocks followed
// by sorted `#id {}` blocks.
func Render(classes, ids map[string]struct{}) []byte {
	var buf bytes.Buffer

	for _, c := range sortedNames(classes) {
		fmt.Fprintf(&buf, ".%s {}\n", c)
	}
	for _, id := range sortedNames(ids) {
		fmt.Fprintf(&buf, "#%s {}\n", id)
	}

	return buf.Bytes()
}

// Write renders the stylesheet and writes it to path only when the
// rendered bytes differ from what is already on disk, avoiding spurious
// rewrites and file-watch retriggering. It reports whether a write
// happened.
func Write(path string, classes, ids map[string]struct{}) (bool, error) {
	out := Render(classes, ids)

	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, out) {
		return false, nil
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return false, fmt.Errorf("write stylesheet: %w", err)
	}
	return true, nil
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
