// Package selector synthesizes CSS selectors for elements picked by the
// user. Selectors favor readability over uniqueness: the result is a
// tag path with nth-of-type indices where siblings share a tag, and it is
// never checked against other elements in the document.
package selector

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/browsermotion/internal/dom"
)

// MaxDepth bounds how many ancestor steps a selector walks.
const MaxDepth = 15

// Separator joins path fragments.
const Separator = " > "

// Querier validates a candidate selector.
type Querier interface {
	QuerySelector(sel string) (*html.Node, error)
	Body() *html.Node
}

// Generate builds a selector for el. The walk stops below body, at the
// top of the tree, or after MaxDepth steps. A candidate the querier rejects
// is replaced by "<tag>:nth-of-type(1)".
func Generate(q Querier, el *html.Node) string {
	if !dom.IsElement(el) {
		return ""
	}

	candidate := Path(el, q.Body())
	if candidate != "" {
		if _, err := q.QuerySelector(candidate); err == nil {
			return candidate
		}
	}
	return Fallback(el)
}

// Path returns the unvalidated tag path from the topmost visited ancestor
// down to el, stopping before stop.
func Path(el, stop *html.Node) string {
	var fragments []string
	for cur, depth := el, 0; cur != nil && cur != stop && depth < MaxDepth; depth++ {
		fragments = append(fragments, Fragment(cur))
		cur = dom.ParentElement(cur)
	}

	for i, j := 0, len(fragments)-1; i < j; i, j = i+1, j-1 {
		fragments[i], fragments[j] = fragments[j], fragments[i]
	}
	return strings.Join(fragments, Separator)
}

// Fragment returns el's lowercased tag, with a 1-based :nth-of-type index
// when its parent has more than one child with the same tag.
func Fragment(el *html.Node) string {
	tag := dom.Tag(el)
	parent := dom.ParentElement(el)
	if parent == nil {
		return tag
	}

	index, count := 0, 0
	for _, sib := range dom.Children(parent) {
		if dom.Tag(sib) != tag {
			continue
		}
		count++
		if sib == el {
			index = count
		}
	}
	if count > 1 {
		return fmt.Sprintf("%s:nth-of-type(%d)", tag, index)
	}
	return tag
}

// Fallback is the selector used when the synthesized path is rejected.
func Fallback(el *html.Node) string {
	return dom.Tag(el) + ":nth-of-type(1)"
}
