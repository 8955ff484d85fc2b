// Package input turns keystrokes into keybind dispatches.
//
// A Recognizer accumulates unmodified single-character keystrokes into a
// pending sequence and classifies it against the active domain's keymap
// table after every key:
//
//   - full match: the bound action is dispatched, the sequence is cleared
//     and the keystroke is suppressed
//   - partial match: the sequence is kept and the keystroke is suppressed
//   - dead end: the sequence is cleared and the keystroke reaches the page
//
// Keystrokes aimed at editable elements never touch the recognizer.
// Keystrokes more than SequenceTimeout apart do not combine. A named key or
// a chord with Ctrl, Alt or Meta clears the sequence and is never
// suppressed.
//
// # Usage
//
//	rec := input.NewRecognizer(input.DefaultConfig(), input.WithDispatcher(d))
//	rec.SetTable(keymap.NewTable(binds))
//
//	res := rec.HandleKeyEvent(ctx, ev)
//	if res.Suppress {
//	    // preventDefault + stopImmediatePropagation
//	}
//
// The table may be replaced at any time with SetTable; a keystroke sees
// either the old table or the new one, never a mix. Until a table is set
// every keystroke is a dead end.
package input
