package script

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrTimeout is returned when a script exceeds its time budget.
	ErrTimeout = errors.New("script: timeout")

	// ErrNoPage is returned by page functions when the runner has no page.
	ErrNoPage = errors.New("script: no page")
)

// Phase identifies where a script failed.
type Phase string

// Script phases.
const (
	PhaseCompile Phase = "compile"
	PhaseRun     Phase = "run"
)

// Error is a compile or runtime failure.
type Error struct {
	Phase Phase
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("script %s error: %v", e.Phase, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
