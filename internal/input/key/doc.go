// Package key provides the keystroke event type consumed by the recognizer.
//
// Events follow the browser's KeyboardEvent model rather than a terminal's:
//
//   - Key holds the KeyboardEvent.key value: a single character such as "g"
//     or "G", or a named key such as "Enter", "Escape", "ArrowUp"
//   - Modifiers holds Ctrl, Alt, Shift and Meta
//   - Target classifies the element that had focus when the key was pressed
//   - Timestamp is when the key was pressed
//
// Only unmodified single characters typed outside editable targets take
// part in keybind sequences; see Event.IsChar, Event.IsModified and
// Target.IsEditable.
package key
