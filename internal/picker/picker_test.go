package picker

import (
	"context"
	"testing"

	"golang.org/x/net/html"

	"github.com/dshills/browsermotion/internal/dom"
	"github.com/dshills/browsermotion/internal/event"
)

type staticSource struct{ doc *dom.Document }

func (s staticSource) Document() *dom.Document { return s.doc }

const page = `<html><body>
	<div id="bm-root"><button id="save">Save</button></div>
	<main><a id="one">1</a><a id="two">2</a></main>
</body></html>`

func setup(t *testing.T) (*Picker, *dom.Document, event.Bus) {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	bus := event.NewBus()
	if err := bus.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	p := New(staticSource{doc}, bus, WithUIRoot("#bm-root"))
	if err := p.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	t.Cleanup(p.Detach)
	return p, doc, bus
}

func el(t *testing.T, doc *dom.Document, sel string) *html.Node {
	t.Helper()
	n, err := doc.QuerySelector(sel)
	if err != nil || n == nil {
		t.Fatalf("QuerySelector(%q) = %v, %v", sel, n, err)
	}
	return n
}

func TestInactivePassesThrough(t *testing.T) {
	p, doc, _ := setup(t)

	if pv := p.HandlePointerMove(el(t, doc, "#one")); pv.Intercept {
		t.Error("HandlePointerMove() intercepted while inactive")
	}
	if pk := p.HandleClick(context.Background(), el(t, doc, "#one")); pk.Intercept {
		t.Error("HandleClick() intercepted while inactive")
	}
}

func TestStartStopSignals(t *testing.T) {
	p, _, bus := setup(t)
	ctx := context.Background()

	_ = event.Publish(ctx, bus, event.TopicPickerStart, event.PickerStart{}, "test")
	if !p.Active() {
		t.Fatal("Active() = false after picker.start")
	}
	_ = event.Publish(ctx, bus, event.TopicPickerStop, event.PickerStop{}, "test")
	if p.Active() {
		t.Error("Active() = true after picker.stop")
	}
}

func TestHoverPreview(t *testing.T) {
	p, doc, _ := setup(t)
	p.Start()

	two := el(t, doc, "#two")
	pv := p.HandlePointerMove(two)
	if !pv.Intercept {
		t.Error("Intercept = false while active")
	}
	if pv.Element != two || p.Hovered() != two {
		t.Error("hovered element not recorded")
	}
	want := "Click to select: main > a:nth-of-type(2)"
	if got := pv.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestHoverUIRootClears(t *testing.T) {
	p, doc, _ := setup(t)
	p.Start()

	p.HandlePointerMove(el(t, doc, "#one"))
	pv := p.HandlePointerMove(el(t, doc, "#save"))
	if pv.Intercept || pv.Element != nil {
		t.Errorf("HandlePointerMove(ui) = %+v, want empty preview", pv)
	}
	if p.Hovered() != nil {
		t.Error("Hovered() not cleared over ui root")
	}
}

func TestClickPublishesAndDeactivates(t *testing.T) {
	p, doc, bus := setup(t)
	var picked []string
	_, _ = event.SubscribeTyped(bus, event.TopicPickerSelected, func(_ context.Context, e event.Event[event.PickerSelected]) error {
		picked = append(picked, e.Payload.Selector)
		return nil
	})

	p.Start()
	pk := p.HandleClick(context.Background(), el(t, doc, "#one"))

	if !pk.Intercept {
		t.Error("Intercept = false for picked click")
	}
	if pk.Selector != "main > a:nth-of-type(1)" {
		t.Errorf("Selector = %q", pk.Selector)
	}
	if len(picked) != 1 || picked[0] != pk.Selector {
		t.Errorf("published %v, want [%s]", picked, pk.Selector)
	}
	if p.Active() {
		t.Error("Active() = true after pick")
	}

	// A second click reaches the page.
	if pk := p.HandleClick(context.Background(), el(t, doc, "#two")); pk.Intercept {
		t.Error("second click intercepted")
	}
}

func TestClickOnUIRootPassesThrough(t *testing.T) {
	p, doc, _ := setup(t)
	p.Start()

	pk := p.HandleClick(context.Background(), el(t, doc, "#save"))
	if pk.Intercept || pk.Selector != "" {
		t.Errorf("HandleClick(ui) = %+v, want pass-through", pk)
	}
	if !p.Active() {
		t.Error("picker deactivated by ui click")
	}
}

func TestNoBus(t *testing.T) {
	doc, _ := dom.ParseString(page)
	p := New(staticSource{doc}, nil)
	if err := p.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	p.Start()

	pk := p.HandleClick(context.Background(), el(t, doc, "#save"))
	if pk.Selector != "div > button" {
		t.Errorf("Selector = %q, want %q", pk.Selector, "div > button")
	}
}
