package event

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Bus is the central event bus interface.
type Bus interface {
	// Publish delivers event to every matching subscription before returning.
	Publish(ctx context.Context, event any) error

	Subscribe(pattern Topic, handler Handler) (Subscription, error)
	SubscribeFunc(pattern Topic, fn HandlerFunc) (Subscription, error)
	Unsubscribe(sub Subscription) error

	Start() error
	Stop(ctx context.Context) error
	IsRunning() bool

	Stats() Stats
}

// bus is the default Bus implementation.
type bus struct {
	mu   sync.RWMutex
	subs []*subscription

	running atomic.Bool
	logger  *slog.Logger

	eventsPublished  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &bus{logger: config.logger}
}

// Start starts the event bus.
func (b *bus) Start() error {
	if b.running.Swap(true) {
		return ErrBusAlreadyRunning
	}
	return nil
}

// Stop stops the event bus. Delivery is synchronous, so there is nothing
// to drain.
func (b *bus) Stop(_ context.Context) error {
	if !b.running.Swap(false) {
		return ErrBusNotRunning
	}
	return nil
}

// IsRunning returns true if the bus is running.
func (b *bus) IsRunning() bool {
	return b.running.Load()
}

// Publish delivers the event in the caller's goroutine.
func (b *bus) Publish(ctx context.Context, event any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}
	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()
	b.eventsPublished.Add(1)

	for _, sub := range b.match(eventTopic) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !sub.IsActive() {
			continue
		}
		b.deliver(ctx, sub, eventTopic, event)
	}
	return nil
}

// match snapshots the subscriptions for eventTopic so handlers may
// subscribe or cancel while being called.
func (b *bus) match(eventTopic Topic) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*subscription
	for _, sub := range b.subs {
		if eventTopic.Matches(sub.pattern) {
			out = append(out, sub)
		}
	}
	return out
}

func (b *bus) deliver(ctx context.Context, sub *subscription, eventTopic Topic, event any) {
	b.handlersExecuted.Add(1)
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			err := &PanicError{SubscriptionID: sub.id, Topic: eventTopic, Value: r}
			b.logger.Error("event handler panicked", "topic", eventTopic, "err", err)
		}
	}()

	if err := sub.handler.Handle(ctx, event); err != nil {
		b.handlerErrors.Add(1)
		herr := &HandlerError{SubscriptionID: sub.id, Topic: eventTopic, Err: err}
		b.logger.Warn("event handler failed", "topic", eventTopic, "err", herr)
	}
}

// Subscribe registers handler for every topic matching pattern.
func (b *bus) Subscribe(pattern Topic, handler Handler) (Subscription, error) {
	if pattern == "" {
		return nil, ErrInvalidTopic
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	sub := newSubscription(pattern, handler, b.remove)
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub, nil
}

// SubscribeFunc registers a handler function.
func (b *bus) SubscribeFunc(pattern Topic, fn HandlerFunc) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn)
}

// Unsubscribe cancels sub.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil || !b.contains(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	return nil
}

func (b *bus) contains(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

func (b *bus) remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Stats returns the bus counters.
func (b *bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
	}
}

// Publish is a typed convenience for building and publishing an event.
func Publish[T any](ctx context.Context, b Bus, eventType Topic, payload T, source string) error {
	return b.Publish(ctx, NewEvent(eventType, payload, source))
}

// SubscribeTyped registers fn for events on pattern carrying payload T.
func SubscribeTyped[T any](b Bus, pattern Topic, fn TypedHandlerFunc[T]) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, AsHandler(fn))
}
