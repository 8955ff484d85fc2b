// Package page provides a headless page: a location plus an HTML document,
// with navigation and synthetic clicks. It is what keybinds act on outside a
// real browser.
package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/browsermotion/internal/dom"
)

// ErrDetached is returned when clicking an element that is not part of the
// current document.
var ErrDetached = errors.New("page: element not in document")

// Loader fetches the document for a location.
type Loader interface {
	Load(ctx context.Context, u *url.URL) (*dom.Document, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, u *url.URL) (*dom.Document, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, u *url.URL) (*dom.Document, error) {
	return f(ctx, u)
}

// NavigateHook observes location changes.
type NavigateHook func(from, to *url.URL)

// Page is a headless browser tab.
type Page struct {
	mu      sync.RWMutex
	loc     *url.URL
	doc     *dom.Document
	history []string
	clicks  []*html.Node

	loader Loader
	hooks  []NavigateHook
	logger *slog.Logger
}

// Option configures a Page.
type Option func(*Page)

// WithLoader sets how documents are fetched on navigation. Without one the
// document stays as it is and only the location changes.
func WithLoader(l Loader) Option {
	return func(p *Page) {
		p.loader = l
	}
}

// WithNavigateHook registers a hook run after every navigation.
func WithNavigateHook(h NavigateHook) Option {
	return func(p *Page) {
		if h != nil {
			p.hooks = append(p.hooks, h)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Page) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a page at rawURL showing doc. A nil doc is an empty document.
func New(rawURL string, doc *dom.Document, opts ...Option) (*Page, error) {
	loc, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("page url: %w", err)
	}
	if !loc.IsAbs() {
		return nil, fmt.Errorf("page url %q: not absolute", rawURL)
	}
	if doc == nil {
		if doc, err = dom.ParseString(""); err != nil {
			return nil, err
		}
	}

	p := &Page{
		loc:     loc,
		doc:     doc,
		history: []string{loc.String()},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// OnNavigate registers h to run after every later navigation.
func (p *Page) OnNavigate(h NavigateHook) {
	if h == nil {
		return
	}
	p.mu.Lock()
	p.hooks = append(p.hooks, h)
	p.mu.Unlock()
}

// URL returns a copy of the current location.
func (p *Page) URL() *url.URL {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u := *p.loc
	return &u
}

// Host returns the hostname of the current location, without port.
func (p *Page) Host() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loc.Hostname()
}

// Path returns the path of the current location. An empty path is "/".
func (p *Page) Path() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.loc.Path == "" {
		return "/"
	}
	return p.loc.Path
}

// Document returns the current document.
func (p *Page) Document() *dom.Document {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc
}

// History returns every location visited, oldest first.
func (p *Page) History() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.history...)
}

// Clicks returns every element clicked, oldest first.
func (p *Page) Clicks() []*html.Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*html.Node(nil), p.clicks...)
}

// QuerySelector queries the current document.
func (p *Page) QuerySelector(sel string) (*html.Node, error) {
	return p.Document().QuerySelector(sel)
}

// Navigate resolves ref against the current location and moves there.
func (p *Page) Navigate(ctx context.Context, ref string) error {
	target, err := url.Parse(ref)
	if err != nil {
		return fmt.Errorf("navigate %q: %w", ref, err)
	}

	p.mu.RLock()
	from := *p.loc
	p.mu.RUnlock()
	to := from.ResolveReference(target)

	var doc *dom.Document
	if p.loader != nil {
		if doc, err = p.loader.Load(ctx, to); err != nil {
			return fmt.Errorf("load %s: %w", to, err)
		}
	}

	p.mu.Lock()
	p.loc = to
	if doc != nil {
		p.doc = doc
	}
	p.history = append(p.history, to.String())
	hooks := p.hooks
	p.mu.Unlock()

	p.logger.Debug("navigated", "from", from.String(), "to", to.String())
	for _, h := range hooks {
		h(&from, to)
	}
	return nil
}

// Click records a synthetic click on el. Clicking a link with an href
// follows it.
func (p *Page) Click(ctx context.Context, el *html.Node) error {
	p.mu.Lock()
	if !dom.Contains(p.doc.Root(), el) {
		p.mu.Unlock()
		return ErrDetached
	}
	p.clicks = append(p.clicks, el)
	p.mu.Unlock()

	p.logger.Debug("clicked", "tag", dom.Tag(el))
	if link := enclosingLink(el); link != nil {
		if href, ok := dom.Attr(link, "href"); ok && href != "" {
			return p.Navigate(ctx, href)
		}
	}
	return nil
}

func enclosingLink(n *html.Node) *html.Node {
	for ; dom.IsElement(n); n = n.Parent {
		if n.DataAtom == atom.A {
			return n
		}
	}
	return nil
}
