package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestTOMLLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"config.toml": {Data: []byte("[input]\nsequence_timeout = \"750ms\"\n\n[store]\nbackend = \"file\"\n")},
		"broken.toml": {Data: []byte("[input\n")},
	}

	cfg, err := NewTOMLLoaderWithFS(fsys, "config.toml").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v, ok := Lookup(cfg, "input.sequence_timeout"); !ok || v != "750ms" {
		t.Errorf("input.sequence_timeout = %v, want 750ms", v)
	}
	if v, ok := Lookup(cfg, "store.backend"); !ok || v != "file" {
		t.Errorf("store.backend = %v, want file", v)
	}

	cfg, err = NewTOMLLoaderWithFS(fsys, "missing.toml").Load()
	if cfg != nil || err != nil {
		t.Errorf("Load(missing) = %v, %v, want nil, nil", cfg, err)
	}

	_, err = NewTOMLLoaderWithFS(fsys, "broken.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load(broken) error = %v, want *ParseError", err)
	}
	if perr.Path != "broken.toml" || perr.Line == 0 {
		t.Errorf("ParseError = %+v", perr)
	}
}

func TestTOMLLoaderFromReader(t *testing.T) {
	cfg, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[log]\nlevel = \"debug\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if v, _ := Lookup(cfg, "log.level"); v != "debug" {
		t.Errorf("log.level = %v, want debug", v)
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader("BROWSERMOTION_")
	l.environ = func() []string {
		return []string{
			"BROWSERMOTION_INPUT_SEQUENCE_TIMEOUT=2s",
			"BROWSERMOTION_SCRIPT_ENABLED=false",
			"BROWSERMOTION_DB=/tmp/x.db",
			"BROWSERMOTION_LOG_LEVEL=",
			"HOME=/root",
		}
	}
	l.AddMapping("BROWSERMOTION_DB", "store.path")

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"input.sequence_timeout", "2s"},
		{"script.enabled", "false"},
		{"store.path", "/tmp/x.db"},
		{"log.level", ""},
	}
	for _, tt := range tests {
		if v, ok := Lookup(cfg, tt.path); !ok || v != tt.want {
			t.Errorf("%s = %v (%v), want %q", tt.path, v, ok, tt.want)
		}
	}
	if _, ok := cfg["home"]; ok {
		t.Error("unprefixed variable loaded")
	}
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader("BROWSERMOTION_")
	tests := []struct {
		env  string
		want string
	}{
		{"BROWSERMOTION_INPUT_SEQUENCE_TIMEOUT", "input.sequence_timeout"},
		{"BROWSERMOTION_PICKER_UI_ROOT", "picker.ui_root"},
		{"BROWSERMOTION_SIMPLE", "simple"},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"store": map[string]any{"backend": "bbolt", "path": "a.db"},
		"log":   map[string]any{"level": "info"},
	}
	src := map[string]any{
		"store": map[string]any{"path": "b.db"},
		"log":   "flat",
	}
	got := DeepMerge(dst, src)

	if v, _ := Lookup(got, "store.backend"); v != "bbolt" {
		t.Errorf("store.backend = %v, want bbolt", v)
	}
	if v, _ := Lookup(got, "store.path"); v != "b.db" {
		t.Errorf("store.path = %v, want b.db", v)
	}
	if got["log"] != "flat" {
		t.Errorf("log = %v, want flat", got["log"])
	}
	if m := DeepMerge(nil, nil); m == nil {
		t.Error("DeepMerge(nil, nil) = nil")
	}
}
