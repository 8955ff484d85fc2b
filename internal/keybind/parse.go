package keybind

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Parse validates a stored keybind document and converts it to a table.
// Any error it returns is a *ValidationError.
func Parse(data []byte) (DomainKeybinds, error) {
	if !gjson.ValidBytes(data) {
		return nil, invalid("", "", "malformed JSON")
	}
	return parseTable(gjson.ParseBytes(data))
}

// ParseString is Parse for string input.
func ParseString(data string) (DomainKeybinds, error) {
	return Parse([]byte(data))
}

// Encode serializes a table into its stored form.
func Encode(d DomainKeybinds) ([]byte, error) {
	if d == nil {
		d = DomainKeybinds{}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

// SiteKeybinds is one entry of a defaults document.
type SiteKeybinds struct {
	Site     string
	Keybinds DomainKeybinds
}

// ParseDomains parses a {site: DomainKeybinds} document, keeping document
// order. Sites whose table fails validation are left out and reported in the
// returned error; the valid ones are still returned.
func ParseDomains(data []byte) ([]SiteKeybinds, error) {
	if !gjson.ValidBytes(data) {
		return nil, invalid("", "", "malformed JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, invalid("", "", "defaults document must be an object")
	}

	var (
		sites []SiteKeybinds
		errs  []error
	)
	root.ForEach(func(k, v gjson.Result) bool {
		table, err := parseTable(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("site %q: %w", k.String(), err))
			return true
		}
		sites = append(sites, SiteKeybinds{Site: k.String(), Keybinds: table})
		return true
	})
	return sites, errors.Join(errs...)
}

func parseTable(root gjson.Result) (DomainKeybinds, error) {
	if !root.IsObject() {
		return nil, invalid("", "", "document must be an object")
	}

	table := make(DomainKeybinds)
	var err error
	root.ForEach(func(k, v gjson.Result) bool {
		seq := k.String()
		var a Action
		a, err = parseAction(seq, v)
		if err != nil {
			return false
		}
		table[seq] = a
		return true
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

func parseAction(seq string, v gjson.Result) (Action, error) {
	if seq == "" {
		return Action{}, invalid(seq, "", "empty key sequence")
	}
	if !v.IsObject() {
		return Action{}, invalid(seq, "", "entry must be an object")
	}

	desc, err := requireString(seq, v, "description", true)
	if err != nil {
		return Action{}, err
	}
	kind, err := requireString(seq, v, "action", false)
	if err != nil {
		return Action{}, err
	}

	a := Action{Description: desc, Type: ActionType(kind)}
	switch a.Type {
	case ActionNavigate:
		a.URL, err = requireString(seq, v, "url", false)
	case ActionClick:
		a.Selector, err = requireString(seq, v, "selector", false)
	case ActionScript:
		a.Script, err = requireString(seq, v, "script", false)
	case ActionConditional:
		a.Conditions, err = parseConditions(seq, v.Get("conditions"))
	default:
		err = invalid(seq, "action", fmt.Sprintf("unknown action %q", kind))
	}
	if err != nil {
		return Action{}, err
	}
	return a, nil
}

func parseConditions(seq string, v gjson.Result) ([]Condition, error) {
	if !v.IsArray() {
		return nil, invalid(seq, "conditions", "must be an array")
	}

	items := v.Array()
	conds := make([]Condition, 0, len(items))
	for i, item := range items {
		field := fmt.Sprintf("conditions[%d]", i)
		if !item.IsObject() {
			return nil, invalid(seq, field, "must be an object")
		}
		pattern := item.Get("pathPattern")
		if pattern.Type != gjson.String {
			return nil, invalid(seq, field+".pathPattern", "must be a string")
		}
		action := item.Get("action")
		if action.Type != gjson.String {
			return nil, invalid(seq, field+".action", "must be a string")
		}
		// Sub-action fields stay optional; the dispatcher skips incomplete branches.
		conds = append(conds, Condition{
			PathPattern: pattern.Str,
			Action:      ActionType(action.Str),
			URL:         item.Get("url").Str,
			Selector:    item.Get("selector").Str,
			Script:      item.Get("script").Str,
		})
	}
	return conds, nil
}

func requireString(seq string, v gjson.Result, field string, allowEmpty bool) (string, error) {
	f := v.Get(field)
	if !f.Exists() {
		return "", invalid(seq, field, "missing")
	}
	if f.Type != gjson.String {
		return "", invalid(seq, field, "must be a string")
	}
	if !allowEmpty && f.Str == "" {
		return "", invalid(seq, field, "must not be empty")
	}
	return f.Str, nil
}

// Validate checks a table built in code against the same rules Parse enforces.
func (d DomainKeybinds) Validate() error {
	for _, seq := range d.Keys() {
		if err := d[seq].validate(seq); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single action as if it were stored under seq.
func (a Action) Validate(seq string) error {
	return a.validate(seq)
}

func (a Action) validate(seq string) error {
	if seq == "" {
		return invalid(seq, "", "empty key sequence")
	}
	switch a.Type {
	case ActionNavigate:
		if a.URL == "" {
			return invalid(seq, "url", "must not be empty")
		}
	case ActionClick:
		if a.Selector == "" {
			return invalid(seq, "selector", "must not be empty")
		}
	case ActionScript:
		if a.Script == "" {
			return invalid(seq, "script", "must not be empty")
		}
	case ActionConditional:
	default:
		return invalid(seq, "action", fmt.Sprintf("unknown action %q", a.Type))
	}
	return nil
}

// MarshalJSON writes only the fields that belong to the action's type.
func (a Action) MarshalJSON() ([]byte, error) {
	type wire struct {
		Description string       `json:"description"`
		Type        ActionType   `json:"action"`
		URL         string       `json:"url,omitempty"`
		Selector    string       `json:"selector,omitempty"`
		Script      string       `json:"script,omitempty"`
		Conditions  *[]Condition `json:"conditions,omitempty"`
	}
	w := wire{Description: a.Description, Type: a.Type}
	switch a.Type {
	case ActionNavigate:
		w.URL = a.URL
	case ActionClick:
		w.Selector = a.Selector
	case ActionScript:
		w.Script = a.Script
	case ActionConditional:
		conds := a.Conditions
		if conds == nil {
			conds = []Condition{}
		}
		w.Conditions = &conds
	}
	return json.Marshal(w)
}
