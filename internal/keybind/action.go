package keybind

import "sort"

// ActionType discriminates the Action union.
type ActionType string

// Action types.
const (
	ActionNavigate    ActionType = "navigate"
	ActionClick       ActionType = "click"
	ActionScript      ActionType = "script"
	ActionConditional ActionType = "conditional"
)

// IsValid returns true if t is one of the known action types.
func (t ActionType) IsValid() bool {
	switch t {
	case ActionNavigate, ActionClick, ActionScript, ActionConditional:
		return true
	}
	return false
}

// Action is what a keybind does when its sequence is typed.
// Only the field matching Type is meaningful.
type Action struct {
	Description string      `json:"description" yaml:"description"`
	Type        ActionType  `json:"action" yaml:"action"`
	URL         string      `json:"url,omitempty" yaml:"url,omitempty"`
	Selector    string      `json:"selector,omitempty" yaml:"selector,omitempty"`
	Script      string      `json:"script,omitempty" yaml:"script,omitempty"`
	Conditions  []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Condition is one branch of a conditional action.
type Condition struct {
	// PathPattern is a regular expression tested against the page path.
	PathPattern string `json:"pathPattern" yaml:"pathPattern"`

	// Action is the sub-action type. Nested conditionals are not supported.
	Action ActionType `json:"action" yaml:"action"`

	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"`
	Script   string `json:"script,omitempty" yaml:"script,omitempty"`
}

// Navigate returns a navigate action.
func Navigate(description, url string) Action {
	return Action{Description: description, Type: ActionNavigate, URL: url}
}

// Click returns a click action.
func Click(description, selector string) Action {
	return Action{Description: description, Type: ActionClick, Selector: selector}
}

// Script returns a script action.
func Script(description, script string) Action {
	return Action{Description: description, Type: ActionScript, Script: script}
}

// Conditional returns a conditional action.
func Conditional(description string, conditions ...Condition) Action {
	return Action{Description: description, Type: ActionConditional, Conditions: conditions}
}

// Value returns the payload for the action's type: the URL, selector or script.
// Conditionals have no single value.
func (a Action) Value() string {
	switch a.Type {
	case ActionNavigate:
		return a.URL
	case ActionClick:
		return a.Selector
	case ActionScript:
		return a.Script
	}
	return ""
}

// Concrete builds the action a matched condition stands for. The result
// carries description. ok is false when the condition's sub-action is not
// a concrete type or its field is empty.
func (c Condition) Concrete(description string) (Action, bool) {
	switch c.Action {
	case ActionNavigate:
		if c.URL != "" {
			return Navigate(description, c.URL), true
		}
	case ActionClick:
		if c.Selector != "" {
			return Click(description, c.Selector), true
		}
	case ActionScript:
		if c.Script != "" {
			return Script(description, c.Script), true
		}
	}
	return Action{}, false
}

// DomainKeybinds maps a key sequence to its action.
type DomainKeybinds map[string]Action

// Keys returns the key sequences in sorted order.
func (d DomainKeybinds) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy that shares no slices with d.
func (d DomainKeybinds) Clone() DomainKeybinds {
	if d == nil {
		return nil
	}
	out := make(DomainKeybinds, len(d))
	for k, a := range d {
		if a.Conditions != nil {
			a.Conditions = append([]Condition(nil), a.Conditions...)
		}
		out[k] = a
	}
	return out
}
