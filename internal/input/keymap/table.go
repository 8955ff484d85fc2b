package keymap

import "github.com/dshills/browsermotion/internal/keybind"

// MatchKind classifies a sequence against a table.
type MatchKind uint8

const (
	// MatchNone means no configured sequence equals or extends seq.
	MatchNone MatchKind = iota

	// MatchPartial means seq is a strict prefix of at least one sequence.
	MatchPartial

	// MatchFull means seq is exactly a configured sequence.
	MatchFull
)

// String returns the match kind name.
func (k MatchKind) String() string {
	switch k {
	case MatchNone:
		return "none"
	case MatchPartial:
		return "partial"
	case MatchFull:
		return "full"
	}
	return "unknown"
}

// Match is the result of Table.Match.
type Match struct {
	Kind MatchKind

	// Action is set for MatchFull.
	Action keybind.Action
}

// Table is an immutable, compiled keybind table for one domain.
type Table struct {
	binds keybind.DomainKeybinds
	root  *prefixNode
}

// prefixNode is keyed per rune so that any string prefix of a configured
// sequence, including one that splits a grapheme cluster, is a node.
type prefixNode struct {
	children map[rune]*prefixNode
	terminal bool
}

// NewTable compiles binds. Empty key sequences are dropped. The table keeps
// its own copy of binds.
func NewTable(binds keybind.DomainKeybinds) *Table {
	t := &Table{
		binds: make(keybind.DomainKeybinds, len(binds)),
		root:  newPrefixNode(),
	}
	for seq, action := range binds.Clone() {
		if seq == "" {
			continue
		}
		t.binds[seq] = action
		t.insert(seq)
	}
	return t
}

func newPrefixNode() *prefixNode {
	return &prefixNode{children: make(map[rune]*prefixNode)}
}

func (t *Table) insert(seq string) {
	node := t.root
	for _, r := range seq {
		child, ok := node.children[r]
		if !ok {
			child = newPrefixNode()
			node.children[r] = child
		}
		node = child
	}
	node.terminal = true
}

// find walks the tree along seq. Returns nil if seq leaves the tree.
func (t *Table) find(seq string) *prefixNode {
	node := t.root
	for _, r := range seq {
		child, ok := node.children[r]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// Lookup returns the action bound to exactly seq.
func (t *Table) Lookup(seq string) (keybind.Action, bool) {
	if t == nil || seq == "" {
		return keybind.Action{}, false
	}
	a, ok := t.binds[seq]
	return a, ok
}

// HasPrefix returns true if some configured sequence is longer than seq and
// starts with it.
func (t *Table) HasPrefix(seq string) bool {
	if t == nil || seq == "" {
		return false
	}
	node := t.find(seq)
	return node != nil && len(node.children) > 0
}

// Match classifies seq. An exact match wins over a partial one.
func (t *Table) Match(seq string) Match {
	if a, ok := t.Lookup(seq); ok {
		return Match{Kind: MatchFull, Action: a}
	}
	if t.HasPrefix(seq) {
		return Match{Kind: MatchPartial}
	}
	return Match{Kind: MatchNone}
}

// Len returns the number of keybinds.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.binds)
}

// Keys returns the configured sequences in sorted order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return t.binds.Keys()
}

// Keybinds returns a copy of the table's keybinds.
func (t *Table) Keybinds() keybind.DomainKeybinds {
	if t == nil {
		return keybind.DomainKeybinds{}
	}
	return t.binds.Clone()
}
