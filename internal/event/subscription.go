package event

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription represents an active event subscription.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic pattern.
	Topic() Topic

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// Cancel permanently cancels the subscription.
	Cancel()
}

type subscription struct {
	id        string
	pattern   Topic
	handler   Handler
	cancelled atomic.Bool

	// onCancel removes the subscription from its bus.
	onCancel func(id string)
}

func newSubscription(pattern Topic, handler Handler, onCancel func(string)) *subscription {
	return &subscription{
		id:       uuid.NewString(),
		pattern:  pattern,
		handler:  handler,
		onCancel: onCancel,
	}
}

func (s *subscription) ID() string     { return s.id }
func (s *subscription) Topic() Topic   { return s.pattern }
func (s *subscription) IsActive() bool { return !s.cancelled.Load() }

func (s *subscription) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}
	if s.onCancel != nil {
		s.onCancel(s.id)
	}
}
