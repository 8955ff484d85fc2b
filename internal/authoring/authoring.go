// Package authoring implements keybind editing for one site: listing and
// searching the table, saving and deleting entries, and filling a click
// selector from the element picker. Every change persists the whole table
// and asks running sessions to reload.
package authoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dshills/browsermotion/internal/event"
	"github.com/dshills/browsermotion/internal/keybind"
	"github.com/dshills/browsermotion/internal/store"
)

// Source names events published by the service.
const Source = "authoring"

var (
	// ErrIncomplete is returned by Save when a required field is empty.
	ErrIncomplete = errors.New("please fill all fields")

	// ErrNotFound is returned when deleting a key sequence that is not bound.
	ErrNotFound = errors.New("keybind not found")
)

// Entry is one row of a listing.
type Entry struct {
	Keys   string
	Action keybind.Action
}

// Draft is a keybind being edited.
type Draft struct {
	Keys        string
	Description string
	Type        keybind.ActionType

	// Value is the URL, selector or script, depending on Type.
	Value string
}

// DraftFrom fills a draft from an existing entry. Conditionals cannot be
// edited as a draft and come back as an empty navigate.
func DraftFrom(e Entry) Draft {
	d := Draft{Keys: e.Keys, Description: e.Action.Description, Type: e.Action.Type, Value: e.Action.Value()}
	if e.Action.Type == keybind.ActionConditional {
		d.Type, d.Value = keybind.ActionNavigate, ""
	}
	return d
}

// Action converts the draft to the action it describes.
func (d Draft) Action() (keybind.Action, error) {
	if strings.TrimSpace(d.Keys) == "" || strings.TrimSpace(d.Description) == "" || strings.TrimSpace(d.Value) == "" {
		return keybind.Action{}, ErrIncomplete
	}
	switch d.Type {
	case keybind.ActionNavigate, "":
		return keybind.Navigate(d.Description, d.Value), nil
	case keybind.ActionClick:
		return keybind.Click(d.Description, d.Value), nil
	case keybind.ActionScript:
		return keybind.Script(d.Description, d.Value), nil
	}
	return keybind.Action{}, fmt.Errorf("unsupported action %q", d.Type)
}

// Service edits the keybind tables of one store.
type Service struct {
	keybinds *store.Keybinds
	bus      event.Bus
	logger   *slog.Logger

	mu      sync.Mutex
	pending *Draft
	sub     event.Subscription
}

// Option configures a Service.
type Option func(*Service)

// WithBus sets the bus that receives reload and picker events.
func WithBus(b event.Bus) Option {
	return func(s *Service) {
		s.bus = b
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a service over k.
func New(k *store.Keybinds, opts ...Option) *Service {
	s := &Service{
		keybinds: k,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the entries for host whose key sequence or description
// contains query, ignoring case, sorted by key sequence.
func (s *Service) List(ctx context.Context, host, query string) ([]Entry, error) {
	binds, _, err := s.keybinds.Load(ctx, host)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))

	var out []Entry
	for _, k := range binds.Keys() {
		a := binds[k]
		if q != "" && !strings.Contains(strings.ToLower(k), q) && !strings.Contains(strings.ToLower(a.Description), q) {
			continue
		}
		out = append(out, Entry{Keys: k, Action: a})
	}
	return out, nil
}

// Save stores d for host, replacing any entry under the same key sequence.
// It reports whether the entry is new.
func (s *Service) Save(ctx context.Context, host string, d Draft) (created bool, err error) {
	action, err := d.Action()
	if err != nil {
		return false, err
	}

	doc, err := s.keybinds.Raw(ctx, host)
	if err != nil {
		return false, err
	}
	current, err := keybind.Parse(doc)
	if err != nil {
		return false, err
	}
	_, exists := current[d.Keys]

	doc, err = keybind.SetBinding(doc, d.Keys, action)
	if err != nil {
		return false, err
	}
	if err := s.keybinds.SaveRaw(ctx, host, doc); err != nil {
		return false, fmt.Errorf("failed to save: %w", err)
	}

	s.logger.Info("keybind saved", "host", host, "keys", d.Keys, "action", action.Type, "created", !exists)
	s.reload(ctx, host)
	return !exists, nil
}

// Delete removes the entry for keys from host's table.
func (s *Service) Delete(ctx context.Context, host, keys string) error {
	doc, err := s.keybinds.Raw(ctx, host)
	if err != nil {
		return err
	}
	current, err := keybind.Parse(doc)
	if err != nil {
		return err
	}
	if _, ok := current[keys]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, keys)
	}

	doc, err = keybind.DeleteBinding(doc, keys)
	if err != nil {
		return err
	}
	if err := s.keybinds.SaveRaw(ctx, host, doc); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	s.logger.Info("keybind deleted", "host", host, "keys", keys)
	s.reload(ctx, host)
	return nil
}

func (s *Service) reload(ctx context.Context, host string) {
	if s.bus == nil {
		return
	}
	if err := event.Publish(ctx, s.bus, event.TopicKeybindsReload, event.KeybindsReload{Host: host}, Source); err != nil {
		s.logger.Warn("reload signal not delivered", "host", host, "err", err)
	}
}

// PickSelector starts the element picker for d. When the picker reports
// a selection the draft becomes a click whose value is the selector; read it
// back with Pending.
func (s *Service) PickSelector(ctx context.Context, d Draft) error {
	if s.bus == nil {
		return errors.New("authoring: picker needs an event bus")
	}

	s.mu.Lock()
	s.pending = &d
	if s.sub == nil {
		sub, err := event.SubscribeTyped(s.bus, event.TopicPickerSelected, s.onSelected)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.sub = sub
	}
	s.mu.Unlock()

	return event.Publish(ctx, s.bus, event.TopicPickerStart, event.PickerStart{}, Source)
}

// CancelPick stops the picker and drops the pending draft.
func (s *Service) CancelPick(ctx context.Context) error {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
	if s.bus == nil {
		return nil
	}
	return event.Publish(ctx, s.bus, event.TopicPickerStop, event.PickerStop{}, Source)
}

// Pending returns the draft being picked for, if any.
func (s *Service) Pending() (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Draft{}, false
	}
	return *s.pending, true
}

// Close cancels the picker subscription.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
}

func (s *Service) onSelected(_ context.Context, e event.Event[event.PickerSelected]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	s.pending.Type = keybind.ActionClick
	s.pending.Value = e.Payload.Selector
	s.logger.Debug("picker filled selector", "keys", s.pending.Keys, "selector", e.Payload.Selector)
	return nil
}
