// Package markup implements the class/identifier side of dxstyles: it walks
// parsed HTML component fragments, collects class tokens and element ids,
// expands the grouped-class notation, derives managed identifiers, and
// applies the resulting mutations back onto the tree.
//
// Node pointers double as position handles. They are unique and comparable
// within one parse pass and must never be kept across parses, since a fresh
// parse allocates fresh nodes.
package markup

import "golang.org/x/net/html"

// Element is one markup element that carries a stylesheet obligation:
// at least one class token or an existing id attribute.
type Element struct {
	Node      *html.Node // position handle, scoped to one parse
	Classes   []string   // sorted, deduplicated class tokens
	CurrentID string     // empty if the element has no id attribute
}

// Update is a pending identifier mutation. Emitted only when the derived
// identifier differs from the element's current one.
type Update struct {
	Node  *html.Node
	NewID string
}

// Binding is a variable synthesized by the grouped-class expander:
// Name holds the binding name, Value the space-joined expanded class list.
type Binding struct {
	Name  string
	Value string
}
