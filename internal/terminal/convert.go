// Package terminal feeds keystrokes from a tcell screen into a session and
// draws a plain text status view.
package terminal

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/browsermotion/internal/input/key"
)

// namedKeys maps tcell keys to KeyboardEvent.key names.
var namedKeys = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyEscape:     "Escape",
	tcell.KeyTab:        "Tab",
	tcell.KeyBacktab:    "Tab",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "ArrowUp",
	tcell.KeyDown:       "ArrowDown",
	tcell.KeyLeft:       "ArrowLeft",
	tcell.KeyRight:      "ArrowRight",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// KeyEvent converts a tcell key event to a page key event at ts.
// Control characters become their letter with ModCtrl. Terminals send
// ctrl+i as Tab, so a Tab is only read as ctrl+i when tcell reports the
// control modifier.
func KeyEvent(ev *tcell.EventKey, ts time.Time) key.Event {
	mods := convertMod(ev.Modifiers())
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		return key.Event{Key: string(ev.Rune()), Modifiers: mods, Timestamp: ts}
	case k == tcell.KeyTab && mods.HasCtrl():
		return key.Event{Key: "i", Modifiers: mods, Timestamp: ts}
	}
	if name, ok := namedKeys[k]; ok {
		return key.Event{Key: name, Modifiers: mods, Timestamp: ts}
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		letter := string(rune('a' + int(k-tcell.KeyCtrlA)))
		return key.Event{Key: letter, Modifiers: mods | key.ModCtrl, Timestamp: ts}
	}
	return key.Event{Key: "Unidentified", Modifiers: mods, Timestamp: ts}
}

func convertMod(m tcell.ModMask) key.Modifier {
	var out key.Modifier
	if m&tcell.ModShift != 0 {
		out |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= key.ModMeta
	}
	return out
}
