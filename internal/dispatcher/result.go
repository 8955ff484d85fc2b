package dispatcher

import (
	"fmt"

	"github.com/dshills/browsermotion/internal/keybind"
)

// Status indicates the outcome of a dispatch.
type Status uint8

const (
	// StatusOK indicates the action ran.
	StatusOK Status = iota
	// StatusNoOp indicates there was nothing to do.
	StatusNoOp
	// StatusError indicates the action failed and was contained.
	StatusError
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result describes what a dispatch did.
type Result struct {
	Status Status

	// Action is the concrete action that ran. For conditionals this is the
	// synthesized sub-action.
	Action keybind.Action

	// Message is a short human-readable summary.
	Message string

	// Err is set for StatusError.
	Err error
}

// OK returns a success result.
func OK(a keybind.Action, format string, args ...any) Result {
	return Result{Status: StatusOK, Action: a, Message: fmt.Sprintf(format, args...)}
}

// NoOp returns a no-op result.
func NoOp(a keybind.Action, format string, args ...any) Result {
	return Result{Status: StatusNoOp, Action: a, Message: fmt.Sprintf(format, args...)}
}

// Failed returns an error result.
func Failed(a keybind.Action, err error) Result {
	return Result{Status: StatusError, Action: a, Message: err.Error(), Err: err}
}

// IsOK returns true if the action ran.
func (r Result) IsOK() bool {
	return r.Status == StatusOK
}
