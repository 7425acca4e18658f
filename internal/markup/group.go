package markup

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// groupPattern matches the factored class notation: prefix(a+b+c).
// The prefix may be empty, in which case a name is synthesized.
var groupPattern = regexp.MustCompile(`(\w*)\(([^)]+)\)`)

// placeholderPattern matches the inner list of an already-expanded group,
// e.g. the ABC+ in box(ABC+). Abbreviate uppercases first letters but
// passes caseless runes (digits, CJK) through, so the pattern excludes
// only what an abbreviation can never contain: lowercase letters, '+'
// separators and whitespace. The classes behind a placeholder live in
// the bindings script.
var placeholderPattern = regexp.MustCompile(`^[^a-z+\s]+\+$`)

// Expansion is the result of expanding grouped-class notation across one
// document. Resolved maps element nodes to their full expanded class list;
// elements without grouped notation are absent and keep their literal
// class tokens.
type Expansion struct {
	Bindings []Binding
	Resolved map[*html.Node][]string
	Changed  bool
}

// ExpandGroups rewrites every grouped-class attribute in the document.
// Each group prefix(a+b+c) is replaced in the attribute text by the
// abbreviated placeholder prefix(ABBR+), a binding prefix="a b c" is
// synthesized, and the expanded classes plus any remaining plain classes
// become the element's resolved class set. Anonymous groups get counter
// names _1, _2, ... scoped to this document. Identifier attributes are
// never touched here.
//
// Placeholders left by a previous pass are recognized and resolved back
// through the bindings script instead of being re-expanded, so a
// rewritten document is a fixed point of this pass.
func ExpandGroups(doc *Document) *Expansion {
	exp := &Expansion{Resolved: make(map[*html.Node][]string)}
	known := ExistingBindings(doc)
	counter := 0

	doc.Walk(func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		val, ok := attr(n, "class")
		if !ok || !groupPattern.MatchString(val) {
			return
		}

		var fullClassList []string

		rewritten := groupPattern.ReplaceAllStringFunc(val, func(m string) string {
			sub := groupPattern.FindStringSubmatch(m)
			prefix, inner := sub[1], sub[2]

			if strings.HasSuffix(inner, "+") {
				// A bound name is authoritative: its group was expanded on
				// an earlier pass and the abbreviation is opaque to us.
				if value, ok := known[prefix]; ok {
					fullClassList = append(fullClassList, strings.Fields(value)...)
					exp.Bindings = append(exp.Bindings, Binding{Name: prefix, Value: value})
					return m
				}
				// Orphan placeholder with no binding left. Leave it alone
				// rather than expand the abbreviation as literal classes.
				if placeholderPattern.MatchString(inner) {
					return m
				}
			}

			name := prefix
			if name == "" {
				for {
					counter++
					name = fmt.Sprintf("_%d", counter)
					if _, taken := known[name]; !taken {
						break
					}
				}
			}

			classes := splitGroup(strings.TrimSuffix(inner, "+"))
			fullClassList = append(fullClassList, classes...)

			exp.Bindings = append(exp.Bindings, Binding{
				Name:  name,
				Value: strings.Join(classes, " "),
			})

			return fmt.Sprintf("%s(%s+)", name, Abbreviate(classes))
		})

		// Plain classes outside any group keep contributing.
		remaining := groupPattern.ReplaceAllString(val, "")
		fullClassList = append(fullClassList, strings.Fields(remaining)...)

		exp.Resolved[n] = fullClassList
		if rewritten != val {
			setAttr(n, "class", rewritten)
			exp.Changed = true
		}
	})

	return exp
}

// splitGroup splits the inner group on '+', trimming whitespace and
// dropping empty segments.
func splitGroup(inner string) []string {
	parts := strings.Split(inner, "+")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
