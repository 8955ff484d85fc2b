package dispatcher

import "errors"

// Dispatcher errors. They are reported in Result.Err, never returned.
var (
	// ErrElementNotFound indicates a click selector matched nothing.
	ErrElementNotFound = errors.New("dispatcher: element not found")

	// ErrScriptsDisabled indicates a script action with no runner configured.
	ErrScriptsDisabled = errors.New("dispatcher: scripts disabled")

	// ErrUnknownAction indicates an action type the dispatcher cannot run.
	ErrUnknownAction = errors.New("dispatcher: unknown action")

	// ErrPanic indicates a collaborator panicked.
	ErrPanic = errors.New("dispatcher: panic")
)
