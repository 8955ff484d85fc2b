package keymap

import (
	"testing"

	"github.com/dshills/browsermotion/internal/keybind"
)

func testTable() *Table {
	return NewTable(keybind.DomainKeybinds{
		"gh":  keybind.Navigate("Home", "/"),
		"gi":  keybind.Navigate("Issues", "/issues"),
		"gpr": keybind.Navigate("Pulls", "/pulls"),
		"t":   keybind.Click("Search", "input.search"),
		"?":   keybind.Script("Help", "print('help')"),
	})
}

func TestTableMatch(t *testing.T) {
	table := testTable()

	tests := []struct {
		seq  string
		want MatchKind
	}{
		{"g", MatchPartial},
		{"gh", MatchFull},
		{"gp", MatchPartial},
		{"gpr", MatchFull},
		{"gpx", MatchNone},
		{"t", MatchFull},
		{"?", MatchFull},
		{"x", MatchNone},
		{"", MatchNone},
		{"ghx", MatchNone},
	}

	for _, tt := range tests {
		if got := table.Match(tt.seq).Kind; got != tt.want {
			t.Errorf("Match(%q) = %s, want %s", tt.seq, got, tt.want)
		}
	}
}

func TestTableMatchAction(t *testing.T) {
	m := testTable().Match("gi")
	if m.Kind != MatchFull {
		t.Fatalf("Match(gi) = %s, want full", m.Kind)
	}
	if m.Action.URL != "/issues" {
		t.Errorf("Match(gi).Action.URL = %q, want /issues", m.Action.URL)
	}
}

func TestTableFullAndPrefix(t *testing.T) {
	table := NewTable(keybind.DomainKeybinds{
		"g":  keybind.Navigate("Top", "/"),
		"gg": keybind.Navigate("Bottom", "/bottom"),
	})

	if got := table.Match("g").Kind; got != MatchFull {
		t.Errorf("Match(g) = %s, want full", got)
	}
	if !table.HasPrefix("g") {
		t.Error("HasPrefix(g) = false, want true")
	}
	if table.HasPrefix("gg") {
		t.Error("HasPrefix(gg) = true, want false")
	}
}

func TestNilTable(t *testing.T) {
	var table *Table

	if got := table.Match("g").Kind; got != MatchNone {
		t.Errorf("nil Match(g) = %s, want none", got)
	}
	if table.Len() != 0 {
		t.Errorf("nil Len() = %d, want 0", table.Len())
	}
	if len(table.Keybinds()) != 0 {
		t.Error("nil Keybinds() not empty")
	}
}

func TestTableDropsEmptyKey(t *testing.T) {
	table := NewTable(keybind.DomainKeybinds{
		"":  keybind.Navigate("bad", "/"),
		"a": keybind.Navigate("ok", "/"),
	})
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestTableIsolatedFromSource(t *testing.T) {
	binds := keybind.DomainKeybinds{"a": keybind.Navigate("A", "/a")}
	table := NewTable(binds)

	binds["b"] = keybind.Navigate("B", "/b")
	if _, ok := table.Lookup("b"); ok {
		t.Error("table observed a later change to its source map")
	}
}

func TestTableMultiByteSequences(t *testing.T) {
	table := NewTable(keybind.DomainKeybinds{
		"éa": keybind.Navigate("accent", "/a"),
	})
	if got := table.Match("é").Kind; got != MatchPartial {
		t.Errorf("Match(é) = %s, want partial", got)
	}
	if got := table.Match("éa").Kind; got != MatchFull {
		t.Errorf("Match(éa) = %s, want full", got)
	}
}

func TestTableDecomposedAccent(t *testing.T) {
	table := NewTable(keybind.DomainKeybinds{
		"e\u0301x": keybind.Navigate("accent", "/x"),
	})

	tests := []struct {
		seq  string
		want MatchKind
	}{
		{"e", MatchPartial},
		{"e\u0301", MatchPartial},
		{"e\u0301x", MatchFull},
		{"\u00e9", MatchNone},
		{"ex", MatchNone},
	}
	for _, tt := range tests {
		if got := table.Match(tt.seq).Kind; got != tt.want {
			t.Errorf("Match(%q) = %s, want %s", tt.seq, got, tt.want)
		}
	}
}
