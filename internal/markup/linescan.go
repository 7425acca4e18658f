package markup

import (
	"regexp"
	"strings"
)

// Line-level attribute patterns for the differential fast path. A full
// tree parse is authoritative; these cover the common case of class/id
// attributes written on a single line with quoted literal values, which is
// all the splice optimization needs. Anything the patterns miss is caught
// by the full-parse fallback.
var (
	classAttrPattern = regexp.MustCompile(`(?:^|\s)class\s*=\s*("([^"]*)"|'([^']*)')`)
	idAttrPattern    = regexp.MustCompile(`(?:^|\s)id\s*=\s*("([^"]*)"|'([^']*)')`)
)

// LineTokens holds the class tokens and ids found on one source line.
type LineTokens struct {
	Classes []string
	IDs     []string
}

// ScanLine extracts class tokens and id values from a single line of
// markup text.
func ScanLine(line string) LineTokens {
	var lt LineTokens

	for _, m := range classAttrPattern.FindAllStringSubmatch(line, -1) {
		val := m[2]
		if val == "" {
			val = m[3]
		}
		lt.Classes = append(lt.Classes, strings.Fields(val)...)
	}

	for _, m := range idAttrPattern.FindAllStringSubmatch(line, -1) {
		val := m[2]
		if val == "" {
			val = m[3]
		}
		if val != "" {
			lt.IDs = append(lt.IDs, val)
		}
	}

	return lt
}

// ScanLines runs ScanLine over every line of content.
func ScanLines(lines []string) []LineTokens {
	out := make([]LineTokens, len(lines))
	for i, line := range lines {
		out[i] = ScanLine(line)
	}
	return out
}
