package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// bindingLine matches one let-declaration inside the bindings script.
var bindingLine = regexp.MustCompile(`let\s+(\w+)\s*=\s*"([^"]*)";`)

// ApplyUpdates sets or inserts the id attribute for every updated element.
func ApplyUpdates(updates []Update) {
	for _, u := range updates {
		setAttr(u.Node, "id", u.NewID)
	}
}

// InsertBindings writes the script block declaring the grouped-class
// bindings, one let-statement per binding. A block left by a previous
// pass is replaced in place; otherwise the script is prepended at the
// head of the document. Returns whether the document changed.
func InsertBindings(doc *Document, bindings []Binding) bool {
	if len(bindings) == 0 {
		return false
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, bind := range bindings {
		b.WriteString("let ")
		b.WriteString(bind.Name)
		b.WriteString(" = \"")
		b.WriteString(bind.Value)
		b.WriteString("\";\n")
	}
	text := b.String()

	if script := findBindingsScript(doc); script != nil {
		if scriptText(script) == text {
			return false
		}
		for c := script.FirstChild; c != nil; {
			next := c.NextSibling
			script.RemoveChild(c)
			c = next
		}
		script.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		return true
	}

	script := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr:     []html.Attribute{{Key: "data-dxstyles", Val: "bindings"}},
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	doc.Prepend(script)
	return true
}

// ExistingBindings reads the binding declarations left by a previous
// expansion pass, keyed by group name. Returns an empty map when the
// document carries no bindings script.
func ExistingBindings(doc *Document) map[string]string {
	out := make(map[string]string)
	script := findBindingsScript(doc)
	if script == nil {
		return out
	}
	for _, m := range bindingLine.FindAllStringSubmatch(scriptText(script), -1) {
		out[m[1]] = m[2]
	}
	return out
}

func findBindingsScript(doc *Document) *html.Node {
	var found *html.Node
	doc.Walk(func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode || n.Data != "script" {
			return
		}
		if v, ok := attr(n, "data-dxstyles"); ok && v == "bindings" {
			found = n
		}
	})
	return found
}

func scriptText(script *html.Node) string {
	var b strings.Builder
	for c := script.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// RenderIfChanged serializes the document only when a mutation was applied.
// With mutated false the original bytes are returned untouched, so files
// that need no change are never reformatted or rewritten. The boolean
// reports whether the returned bytes differ from the original.
func RenderIfChanged(doc *Document, original []byte, mutated bool) ([]byte, bool, error) {
	if !mutated {
		return original, false, nil
	}
	out, err := doc.Render()
	if err != nil {
		return nil, false, err
	}
	return out, string(out) != string(original), nil
}
