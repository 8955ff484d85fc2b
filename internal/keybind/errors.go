package keybind

import (
	"errors"
	"fmt"
)

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("invalid keybinds")

// ValidationError describes why a stored keybind document was rejected.
type ValidationError struct {
	// Key is the key sequence of the offending entry. Empty for document-level errors.
	Key string

	// Field is the offending field within the entry, if any.
	Field string

	// Reason is a short human-readable description.
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Key == "" && e.Field == "":
		return fmt.Sprintf("keybinds: %s", e.Reason)
	case e.Field == "":
		return fmt.Sprintf("keybinds[%q]: %s", e.Key, e.Reason)
	default:
		return fmt.Sprintf("keybinds[%q].%s: %s", e.Key, e.Field, e.Reason)
	}
}

// Is reports whether target is ErrInvalid.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func invalid(key, field, reason string) error {
	return &ValidationError{Key: key, Field: field, Reason: reason}
}
