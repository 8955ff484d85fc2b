package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/dshills/browsermotion/internal/keybind"
)

// Dispatcher runs keybind actions against a page.
type Dispatcher struct {
	page    Page
	scripts ScriptRunner
	logger  *slog.Logger
	metrics *Metrics

	// patterns caches compiled conditional patterns, including failures.
	patterns sync.Map // string -> patternEntry
}

type patternEntry struct {
	re  *regexp.Regexp
	err error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithScriptRunner enables script actions.
func WithScriptRunner(r ScriptRunner) Option {
	return func(d *Dispatcher) {
		d.scripts = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics enables dispatch statistics.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New creates a dispatcher for page. Without a script runner, script
// actions are logged and skipped.
func New(page Page, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		page:   page,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Metrics returns the metrics collector, or nil.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Dispatch runs action against the page's current path. It satisfies the
// recognizer's dispatcher contract and reports nothing back.
func (d *Dispatcher) Dispatch(ctx context.Context, action keybind.Action) {
	d.DispatchAt(ctx, action, d.page.Path())
}

// DispatchAt runs action, resolving conditionals against currentPath.
func (d *Dispatcher) DispatchAt(ctx context.Context, action keybind.Action, currentPath string) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if d.metrics != nil {
				d.metrics.RecordPanic()
			}
			res = Failed(action, fmt.Errorf("%w: %v", ErrPanic, r))
			d.logger.Error("dispatch panicked", "action", action.Type, "panic", r)
		}
		if d.metrics != nil {
			d.metrics.RecordDispatch(action.Type, time.Since(start), res.Status)
		}
	}()

	if action.Type == keybind.ActionConditional {
		return d.conditional(ctx, action, currentPath)
	}
	return d.execute(ctx, action)
}

// execute runs a concrete action.
func (d *Dispatcher) execute(ctx context.Context, a keybind.Action) Result {
	switch a.Type {
	case keybind.ActionNavigate:
		return d.navigate(ctx, a)
	case keybind.ActionClick:
		return d.click(ctx, a)
	case keybind.ActionScript:
		return d.script(ctx, a)
	default:
		d.logger.Warn("unknown action", "action", a.Type, "description", a.Description)
		return Failed(a, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type))
	}
}

func (d *Dispatcher) navigate(ctx context.Context, a keybind.Action) Result {
	if err := d.page.Navigate(ctx, a.URL); err != nil {
		d.logger.Warn("navigation failed", "url", a.URL, "err", err)
		return Failed(a, fmt.Errorf("navigate %q: %w", a.URL, err))
	}
	return OK(a, "navigated to %s", a.URL)
}

func (d *Dispatcher) click(ctx context.Context, a keybind.Action) Result {
	el, err := d.page.QuerySelector(a.Selector)
	if err != nil {
		d.logger.Warn("invalid click selector", "selector", a.Selector, "err", err)
		return Failed(a, err)
	}
	if el == nil {
		d.logger.Warn("element not found for selector", "selector", a.Selector)
		return NoOp(a, "no element matches %s", a.Selector)
	}
	if err := d.page.Click(ctx, el); err != nil {
		d.logger.Warn("click failed", "selector", a.Selector, "err", err)
		return Failed(a, fmt.Errorf("click %q: %w", a.Selector, err))
	}
	return OK(a, "clicked %s", a.Selector)
}

func (d *Dispatcher) script(ctx context.Context, a keybind.Action) Result {
	if d.scripts == nil {
		d.logger.Warn("script actions are disabled", "description", a.Description)
		return Failed(a, ErrScriptsDisabled)
	}
	if err := d.scripts.Run(ctx, a.Script); err != nil {
		d.logger.Error("script execution failed", "description", a.Description, "err", err)
		return Failed(a, err)
	}
	return OK(a, "script ran")
}
