package key

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Target classifies the element a key event was delivered to.
type Target uint8

const (
	// TargetPage is any non-editable element.
	TargetPage Target = iota

	// TargetTextInput is an <input> element.
	TargetTextInput

	// TargetTextArea is a <textarea> element.
	TargetTextArea

	// TargetContentEditable is an element with content-editable semantics.
	TargetContentEditable
)

// IsEditable returns true if keystrokes on the target are the user typing.
func (t Target) IsEditable() bool {
	return t != TargetPage
}

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetPage:
		return "page"
	case TargetTextInput:
		return "input"
	case TargetTextArea:
		return "textarea"
	case TargetContentEditable:
		return "contenteditable"
	}
	return fmt.Sprintf("Target(%d)", uint8(t))
}

// Event represents a single key press.
type Event struct {
	// Key is the KeyboardEvent.key value, e.g. "g", "G", " ", "Enter".
	Key string

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Target classifies the focused element.
	Target Target

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a page-targeted key event with the current timestamp.
func NewEvent(k string, mods Modifier) Event {
	return Event{
		Key:       k,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// At returns a copy of the event with the given timestamp.
func (e Event) At(ts time.Time) Event {
	e.Timestamp = ts
	return e
}

// On returns a copy of the event delivered to target.
func (e Event) On(target Target) Event {
	e.Target = target
	return e
}

// IsChar returns true if Key is a single printable character.
// Named keys such as "Enter" or "ArrowUp" are not characters.
func (e Event) IsChar() bool {
	if e.Key == "" || uniseg.GraphemeClusterCount(e.Key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(e.Key)
	return r != utf8.RuneError && unicode.IsPrint(r)
}

// IsModified returns true if Ctrl, Alt or Meta is held.
// Shift alone is part of the character and does not count.
func (e Event) IsModified() bool {
	return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
}

// String returns a representation like "g" or "Ctrl+Shift+p".
func (e Event) String() string {
	if e.Modifiers == ModNone {
		return e.Key
	}
	return e.Modifiers.String() + "+" + e.Key
}
