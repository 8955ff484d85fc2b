// Package picker implements interactive element picking. While active,
// pointer moves and clicks on the page are intercepted: moves update a
// highlighted element and a selector preview, and a click emits the
// synthesized selector on the event bus and ends picking.
package picker

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/net/html"

	"github.com/dshills/browsermotion/internal/dom"
	"github.com/dshills/browsermotion/internal/event"
	"github.com/dshills/browsermotion/internal/selector"
)

// Source is the page whose elements are picked.
type Source interface {
	Document() *dom.Document
}

// Preview is the picker's response to a pointer move.
type Preview struct {
	// Intercept is true when the move must not reach page handlers.
	Intercept bool

	// Element is the highlighted element, nil when nothing is highlighted.
	Element *html.Node

	// Selector is what a click on Element would produce.
	Selector string
}

// Text returns the preview line shown to the user.
func (p Preview) Text() string {
	if p.Element == nil {
		return ""
	}
	return "Click to select: " + p.Selector
}

// Pick is the picker's response to a click.
type Pick struct {
	// Intercept is true when the click must not reach page handlers.
	Intercept bool

	// Selector is set when the click picked an element.
	Selector string
}

// Picker tracks picker mode for one page.
type Picker struct {
	mu      sync.Mutex
	active  bool
	hovered *html.Node

	source Source
	bus    event.Bus
	uiRoot string
	logger *slog.Logger

	subs []event.Subscription
}

// Option configures a Picker.
type Option func(*Picker)

// WithUIRoot sets a selector for the authoring UI container. Pointer events
// inside it are never intercepted.
func WithUIRoot(sel string) Option {
	return func(p *Picker) {
		p.uiRoot = sel
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Picker) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates an inactive picker. bus may be nil, in which case picks are
// only returned to the caller.
func New(source Source, bus event.Bus, opts ...Option) *Picker {
	p := &Picker{
		source: source,
		bus:    bus,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Attach subscribes the picker to the start and stop topics.
func (p *Picker) Attach() error {
	if p.bus == nil {
		return nil
	}
	start, err := p.bus.SubscribeFunc(event.TopicPickerStart, func(context.Context, any) error {
		p.Start()
		return nil
	})
	if err != nil {
		return err
	}
	stop, err := p.bus.SubscribeFunc(event.TopicPickerStop, func(context.Context, any) error {
		p.Stop()
		return nil
	})
	if err != nil {
		start.Cancel()
		return err
	}

	p.mu.Lock()
	p.subs = append(p.subs, start, stop)
	p.mu.Unlock()
	return nil
}

// Detach cancels the picker's subscriptions.
func (p *Picker) Detach() {
	p.mu.Lock()
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
}

// Start enters picker mode.
func (p *Picker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = true
	p.logger.Debug("picker started")
}

// Stop leaves picker mode and clears the highlight.
func (p *Picker) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = false
	p.hovered = nil
}

// Active returns true while picking.
func (p *Picker) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Hovered returns the highlighted element.
func (p *Picker) Hovered() *html.Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hovered
}

// HandlePointerMove highlights target. Moves over the authoring UI clear
// the highlight and pass through.
func (p *Picker) HandlePointerMove(target *html.Node) Preview {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.active {
		return Preview{}
	}
	doc := p.source.Document()
	if p.inUIRoot(doc, target) || !dom.IsElement(target) {
		p.hovered = nil
		return Preview{}
	}

	p.hovered = target
	return Preview{
		Intercept: true,
		Element:   target,
		Selector:  selector.Generate(doc, target),
	}
}

// HandleClick picks target: the selector is published on picker.selected
// and picker mode ends. Clicks on the authoring UI pass through.
func (p *Picker) HandleClick(ctx context.Context, target *html.Node) Pick {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return Pick{}
	}
	doc := p.source.Document()
	if p.inUIRoot(doc, target) {
		p.mu.Unlock()
		return Pick{}
	}
	if !dom.IsElement(target) {
		p.mu.Unlock()
		return Pick{Intercept: true}
	}

	sel := selector.Generate(doc, target)
	p.active = false
	p.hovered = nil
	p.mu.Unlock()

	p.logger.Info("element picked", "selector", sel)
	if p.bus != nil {
		err := event.Publish(ctx, p.bus, event.TopicPickerSelected, event.PickerSelected{Selector: sel}, "picker")
		if err != nil {
			p.logger.Warn("publish picked selector", "err", err)
		}
	}
	return Pick{Intercept: true, Selector: sel}
}

// inUIRoot must be called with mu held.
func (p *Picker) inUIRoot(doc *dom.Document, n *html.Node) bool {
	if p.uiRoot == "" || doc == nil {
		return false
	}
	root, err := doc.QuerySelector(p.uiRoot)
	if err != nil {
		p.logger.Warn("invalid picker ui root", "selector", p.uiRoot, "err", err)
		return false
	}
	return dom.Contains(root, n)
}
