package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML document.
type Document struct {
	root *html.Node
}

// Parse reads an HTML document. The parser is lenient: any input produces a
// document with html, head and body elements.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the body element, or nil.
func (d *Document) Body() *html.Node {
	return findElement(d.root, atom.Body)
}

// Title returns the text of the first title element.
func (d *Document) Title() string {
	t := findElement(d.root, atom.Title)
	if t == nil {
		return ""
	}
	return strings.TrimSpace(Text(t))
}

// QuerySelector returns the first element matching sel in document order,
// or nil if none does. It fails only when sel is malformed.
func (d *Document) QuerySelector(sel string) (*html.Node, error) {
	s, err := compile(sel)
	if err != nil {
		return nil, err
	}
	return s.MatchFirst(d.root), nil
}

// QuerySelectorAll returns every element matching sel in document order.
func (d *Document) QuerySelectorAll(sel string) ([]*html.Node, error) {
	s, err := compile(sel)
	if err != nil {
		return nil, err
	}
	return s.MatchAll(d.root), nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func compile(sel string) (cascadia.Selector, error) {
	if strings.TrimSpace(sel) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSelector)
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, sel, err)
	}
	return s, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
