// Package keymap compiles a domain's keybinds into a lookup table.
//
// A Table answers the two questions the recognizer asks on every keystroke:
//
//	Lookup(seq)    is seq exactly a configured key sequence?
//	HasPrefix(seq) is seq the start of a longer configured sequence?
//
// Sequences are indexed in a prefix tree keyed by rune, so HasPrefix is a
// plain string-prefix test and costs one step per rune regardless of how
// many keybinds the domain has.
//
// Tables are immutable once built. Reloading keybinds builds a new Table
// and swaps it in whole; the nil *Table is a valid empty table.
//
// # Usage
//
//	table := keymap.NewTable(binds)
//
//	switch m := table.Match("g"); m.Kind {
//	case keymap.MatchFull:
//	    // run m.Action
//	case keymap.MatchPartial:
//	    // wait for more keys
//	case keymap.MatchNone:
//	    // dead end
//	}
package keymap
