package keybind

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseValid(t *testing.T) {
	doc := `{
		"gh": {"description": "Home", "action": "navigate", "url": "https://github.com"},
		"c":  {"description": "Compose", "action": "click", "selector": "button.compose"},
		"s":  {"description": "Scroll", "action": "script", "script": "page.navigate('/top')"},
		"gi": {"description": "Issues", "action": "conditional", "conditions": [
			{"pathPattern": "^/a", "action": "navigate", "url": "X"},
			{"pathPattern": ".*", "action": "click"}
		]}
	}`

	binds, err := ParseString(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(binds) != 4 {
		t.Fatalf("len(binds) = %d, want 4", len(binds))
	}

	if got := binds["gh"]; !reflect.DeepEqual(got, Navigate("Home", "https://github.com")) {
		t.Errorf("binds[gh] = %+v", got)
	}
	if got := binds["c"].Selector; got != "button.compose" {
		t.Errorf("binds[c].Selector = %q, want button.compose", got)
	}
	if got := binds["s"].Type; got != ActionScript {
		t.Errorf("binds[s].Type = %q, want script", got)
	}

	gi := binds["gi"]
	if len(gi.Conditions) != 2 {
		t.Fatalf("len(Conditions) = %d, want 2", len(gi.Conditions))
	}
	if gi.Conditions[0].PathPattern != "^/a" || gi.Conditions[0].URL != "X" {
		t.Errorf("Conditions[0] = %+v", gi.Conditions[0])
	}
	// Incomplete branches survive parsing.
	if gi.Conditions[1].Action != ActionClick || gi.Conditions[1].Selector != "" {
		t.Errorf("Conditions[1] = %+v", gi.Conditions[1])
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		key   string
		field string
	}{
		{"not json", `{"gh":`, "", ""},
		{"array root", `[]`, "", ""},
		{"empty key", `{"": {"description": "x", "action": "navigate", "url": "u"}}`, "", ""},
		{"entry not object", `{"gh": "https://github.com"}`, "gh", ""},
		{"missing description", `{"gh": {"action": "navigate", "url": "u"}}`, "gh", "description"},
		{"missing action", `{"gh": {"description": "x", "url": "u"}}`, "gh", "action"},
		{"unknown action", `{"gh": {"description": "x", "action": "open"}}`, "gh", "action"},
		{"navigate without url", `{"gh": {"description": "x", "action": "navigate"}}`, "gh", "url"},
		{"click selector number", `{"c": {"description": "x", "action": "click", "selector": 3}}`, "c", "selector"},
		{"conditions not array", `{"x": {"description": "x", "action": "conditional", "conditions": {}}}`, "x", "conditions"},
		{"condition without pattern", `{"x": {"description": "x", "action": "conditional", "conditions": [{"action": "navigate"}]}}`, "x", "conditions[0].pathPattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.doc)
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("errors.Is(err, ErrInvalid) = false for %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not *ValidationError", err)
			}
			if verr.Key != tt.key || verr.Field != tt.field {
				t.Errorf("ValidationError{Key: %q, Field: %q}, want {%q, %q}", verr.Key, verr.Field, tt.key, tt.field)
			}
		})
	}
}

func TestParseEmptyObject(t *testing.T) {
	binds, err := ParseString(`{}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(binds) != 0 {
		t.Errorf("len(binds) = %d, want 0", len(binds))
	}
}

func TestParseDomainsKeepsOrder(t *testing.T) {
	doc := `{
		"youtube.com": {"j": {"description": "Back", "action": "click", "selector": "video"}},
		"broken.com": {"x": {"action": "navigate"}},
		"github.com": {"gh": {"description": "Home", "action": "navigate", "url": "/"}}
	}`

	sites, err := ParseDomains([]byte(doc))
	if err == nil {
		t.Error("ParseDomains() error = nil, want error for broken.com")
	}
	if len(sites) != 2 {
		t.Fatalf("len(sites) = %d, want 2", len(sites))
	}
	if sites[0].Site != "youtube.com" || sites[1].Site != "github.com" {
		t.Errorf("sites = [%s %s], want [youtube.com github.com]", sites[0].Site, sites[1].Site)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := DomainKeybinds{
		"gh": Navigate("Home", "https://github.com"),
		"gi": Conditional("Issues"),
	}

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()) error = %v; data = %s", err, data)
	}
	if !reflect.DeepEqual(out["gh"], in["gh"]) {
		t.Errorf("gh = %+v, want %+v", out["gh"], in["gh"])
	}
	if out["gi"].Type != ActionConditional || len(out["gi"].Conditions) != 0 {
		t.Errorf("gi = %+v", out["gi"])
	}
}

func TestEncodeRejectsInvalid(t *testing.T) {
	_, err := Encode(DomainKeybinds{"c": {Description: "x", Type: ActionClick}})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Encode() error = %v, want ErrInvalid", err)
	}
}

func TestConditionConcrete(t *testing.T) {
	tests := []struct {
		cond Condition
		ok   bool
		want Action
	}{
		{Condition{Action: ActionNavigate, URL: "X"}, true, Navigate("d", "X")},
		{Condition{Action: ActionClick, Selector: "a"}, true, Click("d", "a")},
		{Condition{Action: ActionScript, Script: "x()"}, true, Script("d", "x()")},
		{Condition{Action: ActionNavigate}, false, Action{}},
		{Condition{Action: ActionConditional}, false, Action{}},
		{Condition{Action: "bogus", URL: "X"}, false, Action{}},
	}

	for _, tt := range tests {
		got, ok := tt.cond.Concrete("d")
		if ok != tt.ok {
			t.Errorf("Concrete(%+v) ok = %v, want %v", tt.cond, ok, tt.ok)
			continue
		}
		if ok && got.Type != tt.want.Type {
			t.Errorf("Concrete(%+v) = %+v, want %+v", tt.cond, got, tt.want)
		}
	}
}
