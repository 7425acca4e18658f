package markup

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed component fragment: an ordered list of top-level
// nodes parsed in body context, so component files do not get wrapped in a
// synthetic <html><body> scaffold.
type Document struct {
	nodes []*html.Node
}

// Parse parses component file content into a Document.
func Parse(content []byte) (*Document, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(bytes.NewReader(content), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return &Document{nodes: nodes}, nil
}

// Render serializes the document back to markup text.
func (d *Document) Render() ([]byte, error) {
	var buf bytes.Buffer
	for _, n := range d.nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, fmt.Errorf("serialize markup: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Walk visits every node in the document in pre-order, depth-first.
// The traversal order is stable across calls, which the identifier
// resolver relies on for collision numbering.
func (d *Document) Walk(fn func(*html.Node)) {
	for _, n := range d.nodes {
		walkNode(n, fn)
	}
}

func walkNode(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNode(c, fn)
	}
}

// Prepend inserts a node before all existing top-level nodes.
func (d *Document) Prepend(n *html.Node) {
	d.nodes = append([]*html.Node{n}, d.nodes...)
}

// attr returns the value of the named attribute and whether it exists.
func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// setAttr overwrites the named attribute, appending it if absent.
func setAttr(n *html.Node, name, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}
