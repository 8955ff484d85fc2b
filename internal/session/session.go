// Package session runs browsermotion on one page: it keeps the keybind
// table for the page's host loaded, routes keystrokes through the sequence
// recognizer to the dispatcher, and drives the element picker.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/browsermotion/internal/dispatcher"
	"github.com/dshills/browsermotion/internal/event"
	"github.com/dshills/browsermotion/internal/input"
	"github.com/dshills/browsermotion/internal/input/keymap"
	"github.com/dshills/browsermotion/internal/page"
	"github.com/dshills/browsermotion/internal/picker"
	"github.com/dshills/browsermotion/internal/store"
)

// Source names events published by a session.
const Source = "session"

var (
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("session: already started")

	// ErrNotStarted is returned by Close on a session that never started.
	ErrNotStarted = errors.New("session: not started")
)

// Session wires one page to its keybinds.
type Session struct {
	page     *page.Page
	keybinds *store.Keybinds
	bus      event.Bus

	recognizer *input.Recognizer
	dispatcher *dispatcher.Dispatcher
	picker     *picker.Picker
	watcher    *store.Watcher

	inputConfig input.Config
	runner      dispatcher.ScriptRunner
	uiRoot      string
	logger      *slog.Logger

	started atomic.Bool
	closed  atomic.Bool

	// loads counts completed table loads.
	loads atomic.Uint64

	// generation is bumped by every reload and host change. A reload
	// installs its table only if no newer one has started since.
	generation atomic.Uint64
	installMu  sync.Mutex

	topbarOpen atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
	ctx    context.Context
	subs   []event.Subscription
	loaded chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithInputConfig sets the recognizer configuration.
func WithInputConfig(c input.Config) Option {
	return func(s *Session) {
		s.inputConfig = c
	}
}

// WithScriptRunner enables script actions.
func WithScriptRunner(r dispatcher.ScriptRunner) Option {
	return func(s *Session) {
		s.runner = r
	}
}

// WithWatcher reloads the table when the store reports an external change.
// The session closes the watcher when it closes.
func WithWatcher(w *store.Watcher) Option {
	return func(s *Session) {
		s.watcher = w
	}
}

// WithUIRoot sets the authoring UI selector the picker ignores.
func WithUIRoot(sel string) Option {
	return func(s *Session) {
		s.uiRoot = sel
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a session for p. The keybind table stays empty until Start
// loads it. bus may be shared with other components; a nil bus gets a
// private one.
func New(p *page.Page, k *store.Keybinds, bus event.Bus, opts ...Option) *Session {
	s := &Session{
		page:        p,
		keybinds:    k,
		bus:         bus,
		inputConfig: input.DefaultConfig(),
		logger:      slog.New(slog.DiscardHandler),
		loaded:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = event.NewBus(event.WithLogger(s.logger))
	}

	dopts := []dispatcher.Option{dispatcher.WithLogger(s.logger.With("component", "dispatcher"))}
	if s.runner != nil {
		dopts = append(dopts, dispatcher.WithScriptRunner(s.runner))
	}
	s.dispatcher = dispatcher.New(p, dopts...)
	s.recognizer = input.NewRecognizer(s.inputConfig,
		input.WithDispatcher(s.dispatcher),
		input.WithLogger(s.logger.With("component", "recognizer")),
	)

	popts := []picker.Option{picker.WithLogger(s.logger.With("component", "picker"))}
	if s.uiRoot != "" {
		popts = append(popts, picker.WithUIRoot(s.uiRoot))
	}
	s.picker = picker.New(p, s.bus, popts...)

	p.OnNavigate(s.onNavigate)
	return s
}

// Start subscribes to reload and picker signals and loads the table for
// the current host in the background. Canceling ctx stops the session's
// background work.
func (s *Session) Start(ctx context.Context) error {
	if s.started.Swap(true) {
		return ErrAlreadyStarted
	}
	if !s.bus.IsRunning() {
		if err := s.bus.Start(); err != nil && !errors.Is(err, event.ErrBusAlreadyRunning) {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.group = group
	s.ctx = gctx
	s.mu.Unlock()

	if err := s.subscribe(); err != nil {
		cancel()
		return err
	}
	if err := s.picker.Attach(); err != nil {
		s.unsubscribe()
		cancel()
		return err
	}
	if s.watcher != nil {
		group.Go(func() error {
			s.watchLoop(gctx)
			return nil
		})
	}

	first := s.loaded
	s.goReload(func() { close(first) })
	return nil
}

// Close stops background work and releases subscriptions.
func (s *Session) Close() error {
	if !s.started.Load() {
		return ErrNotStarted
	}
	if s.closed.Swap(true) {
		return nil
	}

	s.picker.Detach()
	s.unsubscribe()

	var werr error
	if s.watcher != nil {
		werr = s.watcher.Close()
	}

	s.mu.Lock()
	cancel, group := s.cancel, s.group
	s.group = nil
	s.mu.Unlock()
	cancel()
	return errors.Join(group.Wait(), werr)
}

// Loaded is closed once the first table load finishes.
func (s *Session) Loaded() <-chan struct{} {
	return s.loaded
}

// Loads returns how many table loads have completed.
func (s *Session) Loads() uint64 {
	return s.loads.Load()
}

// Reload loads the table for the current host and installs it. It is
// what background reloads run, exposed for callers that need to wait.
// A load overtaken by a later reload or a host change is discarded.
func (s *Session) Reload(ctx context.Context) error {
	gen := s.generation.Add(1)
	host := s.page.Host()
	binds, origin, err := s.keybinds.Load(ctx, host)
	if err != nil {
		s.logger.Error("keybind load failed", "host", host, "err", err)
		return err
	}

	s.installMu.Lock()
	defer s.installMu.Unlock()
	if latest := s.generation.Load(); latest != gen {
		s.logger.Debug("discarding superseded keybinds", "host", host, "generation", gen, "latest", latest)
		return nil
	}
	if current := s.page.Host(); current != host {
		s.logger.Debug("discarding keybinds for previous host", "host", host, "current", current)
		return nil
	}

	s.recognizer.SetTable(keymap.NewTable(binds))
	s.recognizer.Reset()
	s.loads.Add(1)
	s.logger.Info("keybinds loaded", "host", host, "origin", origin, "count", len(binds))
	return nil
}

// goReload runs Reload on the session's group, then done if non-nil.
func (s *Session) goReload(done func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.group == nil {
		if done != nil {
			done()
		}
		return
	}

	ctx := s.ctx
	s.group.Go(func() error {
		if done != nil {
			defer done()
		}
		_ = s.Reload(ctx)
		return nil
	})
}

func (s *Session) onNavigate(from, to *url.URL) {
	if from.Hostname() == to.Hostname() {
		return
	}
	s.logger.Debug("host changed", "from", from.Hostname(), "to", to.Hostname())
	s.installMu.Lock()
	s.generation.Add(1)
	s.recognizer.SetTable(nil)
	s.recognizer.Reset()
	s.installMu.Unlock()
	s.goReload(nil)
}

// Page returns the session's page.
func (s *Session) Page() *page.Page {
	return s.page
}

// Bus returns the session's event bus.
func (s *Session) Bus() event.Bus {
	return s.bus
}

// Picker returns the session's element picker.
func (s *Session) Picker() *picker.Picker {
	return s.picker
}

// Recognizer returns the session's sequence recognizer.
func (s *Session) Recognizer() *input.Recognizer {
	return s.recognizer
}

// Dispatcher returns the session's action dispatcher.
func (s *Session) Dispatcher() *dispatcher.Dispatcher {
	return s.dispatcher
}

// TopbarOpen reports whether the authoring topbar is toggled on.
func (s *Session) TopbarOpen() bool {
	return s.topbarOpen.Load()
}
