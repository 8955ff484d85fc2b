package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/browsermotion/internal/input/key"
)

// IsElement returns true if n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Tag returns the lowercased tag name of an element, or "".
func Tag(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}
	return strings.ToLower(n.Data)
}

// ParentElement returns the nearest ancestor that is an element. The html
// element has no parent element.
func ParentElement(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if p := n.Parent; IsElement(p) {
		return p
	}
	return nil
}

// Children returns the element children of n in document order.
func Children(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c) {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether n is ancestor or a descendant of it.
func Contains(ancestor, n *html.Node) bool {
	if ancestor == nil {
		return false
	}
	for ; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return b.String()
}

// IsContentEditable resolves the contenteditable attribute the way browsers
// do: "", "true" and "plaintext-only" enable editing, "false" disables it,
// and anything else (or no attribute) inherits from the parent.
func IsContentEditable(n *html.Node) bool {
	for ; IsElement(n); n = n.Parent {
		v, ok := Attr(n, "contenteditable")
		if !ok {
			continue
		}
		switch strings.ToLower(v) {
		case "", "true", "plaintext-only":
			return true
		case "false":
			return false
		}
	}
	return false
}

// ClassifyTarget reports what kind of element a key event targeting n is
// delivered to. Every input element counts as a text input regardless of its
// type attribute.
func ClassifyTarget(n *html.Node) key.Target {
	if !IsElement(n) {
		return key.TargetPage
	}
	switch n.DataAtom {
	case atom.Input:
		return key.TargetTextInput
	case atom.Textarea:
		return key.TargetTextArea
	}
	if IsContentEditable(n) {
		return key.TargetContentEditable
	}
	return key.TargetPage
}
