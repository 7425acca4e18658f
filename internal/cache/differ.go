package cache

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Span is a half-open range of changed line indexes in the new content.
type Span struct {
	Start int
	End   int
}

// Diff describes how new content relates to the previously cached content.
// Ratio is the similarity ratio in [0,1]; Spans are the changed regions of
// the new content; Unchanged maps new-content line indexes to the old line
// they are identical to, for splicing cached per-line data.
type Diff struct {
	Ratio     float64
	Spans     []Span
	Unchanged map[int]int
}

// DiffLines computes a line-level diff between the cached and live
// content. The engine uses it to decide whether a partial rescan is worth
// it: a low similarity ratio means too much changed and the full parse is
// cheaper than splicing.
func DiffLines(oldLines, newLines []string) Diff {
	m := difflib.NewMatcher(oldLines, newLines)

	d := Diff{
		Ratio:     m.Ratio(),
		Unchanged: make(map[int]int),
	}

	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for k := 0; op.J1+k < op.J2; k++ {
				d.Unchanged[op.J1+k] = op.I1 + k
			}
		case 'r', 'i':
			if op.J2 > op.J1 {
				d.Spans = append(d.Spans, Span{Start: op.J1, End: op.J2})
			}
		}
	}

	return d
}

// Splicable reports whether the diff qualifies for a partial rescan:
// enough of the file is unchanged and there is at least one identifiable
// changed span. Full reparse is always the safe fallback.
func (d Diff) Splicable() bool {
	return d.Ratio >= 0.5 && len(d.Spans) > 0
}
