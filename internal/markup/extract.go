package markup

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// ExtractElements walks the document in pre-order and collects, per element,
// its class tokens and any existing id attribute. Elements with neither are
// dropped: they carry no stylesheet obligation. The walk is a pure function
// of the tree and its order feeds identifier collision numbering.
func ExtractElements(doc *Document) []Element {
	var elements []Element

	doc.Walk(func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}

		var classes []string
		if val, ok := attr(n, "class"); ok {
			classes = splitClasses(val)
		}

		currentID, _ := attr(n, "id")

		if len(classes) == 0 && currentID == "" {
			return
		}

		elements = append(elements, Element{
			Node:      n,
			Classes:   classes,
			CurrentID: currentID,
		})
	})

	return elements
}

// splitClasses splits an attribute value on whitespace, dropping blanks,
// then sorts and deduplicates for a deterministic token list.
func splitClasses(val string) []string {
	fields := strings.Fields(val)
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	out := fields[:1]
	for _, f := range fields[1:] {
		if f != out[len(out)-1] {
			out = append(out, f)
		}
	}
	return out
}
