package dispatcher

import (
	"context"

	"golang.org/x/net/html"
)

// Page is the document keybinds act on.
type Page interface {
	// Path is the path component of the current location.
	Path() string

	// Navigate sets the location. url may be relative to the current one.
	Navigate(ctx context.Context, url string) error

	// QuerySelector returns the first element matching sel, or nil. It
	// fails only for malformed selectors.
	QuerySelector(sel string) (*html.Node, error)

	// Click delivers a synthetic click to el.
	Click(ctx context.Context, el *html.Node) error
}

// ScriptRunner executes script actions. Implementations decide what a
// script may touch.
type ScriptRunner interface {
	Run(ctx context.Context, source string) error
}
