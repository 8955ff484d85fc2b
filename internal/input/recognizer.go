package input

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/browsermotion/internal/input/key"
	"github.com/dshills/browsermotion/internal/input/keymap"
	"github.com/dshills/browsermotion/internal/keybind"
)

// DefaultSequenceTimeout is how long a partial sequence stays live.
const DefaultSequenceTimeout = 1000 * time.Millisecond

// Config configures a Recognizer.
type Config struct {
	// SequenceTimeout is the maximum gap between two keystrokes of one
	// sequence. Default: 1000ms
	SequenceTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SequenceTimeout: DefaultSequenceTimeout,
	}
}

// Dispatcher executes a matched keybind action.
// Implementations must not retain ctx past the call.
type Dispatcher interface {
	Dispatch(ctx context.Context, action keybind.Action)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, action keybind.Action)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, action keybind.Action) {
	f(ctx, action)
}

// Outcome classifies what a keystroke did.
type Outcome uint8

const (
	// OutcomeIgnored means the keystroke targeted an editable element.
	OutcomeIgnored Outcome = iota

	// OutcomeReset means the keystroke was a named key or a modified chord.
	OutcomeReset

	// OutcomeFull means the sequence matched a keybind exactly.
	OutcomeFull

	// OutcomePartial means the sequence is a prefix of some keybind.
	OutcomePartial

	// OutcomeDeadEnd means the sequence cannot lead to any keybind.
	OutcomeDeadEnd
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeReset:
		return "reset"
	case OutcomeFull:
		return "full"
	case OutcomePartial:
		return "partial"
	case OutcomeDeadEnd:
		return "dead-end"
	}
	return "unknown"
}

// Result describes how a keystroke was handled.
type Result struct {
	Outcome Outcome

	// Suppress is true when the keystroke must not reach the page:
	// default handling prevented and propagation stopped.
	Suppress bool

	// Sequence is the pending sequence after the keystroke.
	Sequence string

	// Matched is the key sequence that fired, for OutcomeFull.
	Matched string

	// Action is the dispatched action, for OutcomeFull.
	Action keybind.Action
}

// Recognizer matches keystroke sequences against a keymap table.
// The zero value is not usable; create one with NewRecognizer.
type Recognizer struct {
	mu sync.Mutex

	config Config

	// table is swapped whole on reload.
	table atomic.Pointer[keymap.Table]

	// sequence and lastKeystroke are guarded by mu.
	sequence      string
	lastKeystroke time.Time

	dispatcher Dispatcher
	logger     *slog.Logger
	metrics    *Metrics
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithDispatcher sets the dispatcher called on full matches.
func WithDispatcher(d Dispatcher) Option {
	return func(r *Recognizer) {
		r.dispatcher = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recognizer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRecognizer creates a recognizer with an empty table.
func NewRecognizer(config Config, opts ...Option) *Recognizer {
	if config.SequenceTimeout <= 0 {
		config.SequenceTimeout = DefaultSequenceTimeout
	}
	r := &Recognizer{
		config:  config,
		logger:  slog.New(slog.DiscardHandler),
		metrics: &Metrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetTable replaces the active keymap table. A nil table disables all keybinds.
func (r *Recognizer) SetTable(t *keymap.Table) {
	r.table.Store(t)
}

// Table returns the active keymap table, or nil if none is loaded.
func (r *Recognizer) Table() *keymap.Table {
	return r.table.Load()
}

// HandleKeyEvent processes one keystroke. On a full match the action is
// dispatched before HandleKeyEvent returns.
func (r *Recognizer) HandleKeyEvent(ctx context.Context, ev key.Event) Result {
	res := r.classify(ev)
	r.metrics.recordOutcome(res.Outcome)

	if res.Outcome == OutcomeFull {
		r.dispatch(ctx, res.Matched, res.Action)
	}
	return res
}

// classify updates the pending sequence under the lock. It never calls out.
func (r *Recognizer) classify(ev key.Event) Result {
	if ev.Target.IsEditable() {
		return Result{Outcome: OutcomeIgnored, Sequence: r.Sequence()}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sequence != "" && ev.Timestamp.Sub(r.lastKeystroke) > r.config.SequenceTimeout {
		r.metrics.expired.Add(1)
		r.sequence = ""
	}

	if !ev.IsChar() || ev.IsModified() {
		r.sequence = ""
		return Result{Outcome: OutcomeReset}
	}

	r.sequence += ev.Key
	r.lastKeystroke = ev.Timestamp

	m := r.table.Load().Match(r.sequence)
	switch m.Kind {
	case keymap.MatchFull:
		matched := r.sequence
		r.sequence = ""
		return Result{
			Outcome:  OutcomeFull,
			Suppress: true,
			Matched:  matched,
			Action:   m.Action,
		}
	case keymap.MatchPartial:
		return Result{
			Outcome:  OutcomePartial,
			Suppress: true,
			Sequence: r.sequence,
		}
	default:
		r.sequence = ""
		return Result{Outcome: OutcomeDeadEnd}
	}
}

// dispatch runs the dispatcher outside the lock. A panicking dispatcher is
// logged and otherwise ignored so the listener keeps working.
func (r *Recognizer) dispatch(ctx context.Context, seq string, action keybind.Action) {
	if r.dispatcher == nil {
		return
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.dispatchPanics.Add(1)
			r.logger.Error("keybind dispatch panicked", "keys", seq, "action", action.Type, "panic", rec)
		}
		r.metrics.recordDispatch(time.Since(start))
	}()

	r.logger.Debug("keybind matched", "keys", seq, "action", action.Type, "description", action.Description)
	r.dispatcher.Dispatch(ctx, action)
}

// Sequence returns the pending key sequence.
func (r *Recognizer) Sequence() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sequence
}

// Reset clears the pending key sequence.
func (r *Recognizer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence = ""
}

// Stats returns a snapshot of the recognizer's counters.
func (r *Recognizer) Stats() Stats {
	return r.metrics.Snapshot()
}
