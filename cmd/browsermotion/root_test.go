package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/browsermotion/internal/keybind"
)

// runCLI executes the root command against a file store in dir.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	base := []string{
		"--config", filepath.Join(dir, "missing.toml"),
		"--store", "file",
		"--store-path", filepath.Join(dir, "store"),
		"--log-level", "error",
	}
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(base, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"keys", "pick", "replay", "try"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
	for _, name := range []string{"list", "set", "delete", "export", "import"} {
		cmd, _, err := root.Find([]string{"keys", name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(keys %q) = %v, %v", name, cmd, err)
		}
	}
}

func TestVersion(t *testing.T) {
	root := newRootCmd()
	if !strings.Contains(root.Version, version) {
		t.Errorf("Version = %q, want it to contain %q", root.Version, version)
	}
}

func TestKeysSetListDelete(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "keys", "set", "example.com", "gh", "-d", "Home", "-a", "navigate", "-v", "https://example.com")
	if err != nil {
		t.Fatalf("keys set error = %v", err)
	}
	if strings.TrimSpace(out) != "Keybind added!" {
		t.Errorf("keys set output = %q, want Keybind added!", out)
	}

	out, err = runCLI(t, dir, "keys", "set", "example.com", "gh", "-d", "Start", "-a", "click", "-v", "a.home")
	if err != nil {
		t.Fatalf("keys set error = %v", err)
	}
	if strings.TrimSpace(out) != "Keybind updated!" {
		t.Errorf("keys set output = %q, want Keybind updated!", out)
	}

	out, err = runCLI(t, dir, "--format", "json", "keys", "list", "example.com")
	if err != nil {
		t.Fatalf("keys list error = %v", err)
	}
	var views []entryView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("keys list output %q: %v", out, err)
	}
	want := entryView{Keys: "gh", Description: "Start", Action: "click", Value: "a.home"}
	if len(views) != 1 || views[0] != want {
		t.Errorf("keys list = %+v, want [%+v]", views, want)
	}

	out, err = runCLI(t, dir, "--format", "json", "keys", "list")
	if err != nil {
		t.Fatalf("keys list error = %v", err)
	}
	var hosts []string
	if err := json.Unmarshal([]byte(out), &hosts); err != nil {
		t.Fatalf("keys list output %q: %v", out, err)
	}
	if len(hosts) != 1 || hosts[0] != "example.com" {
		t.Errorf("hosts = %v, want [example.com]", hosts)
	}

	if _, err := runCLI(t, dir, "keys", "delete", "example.com", "gh"); err != nil {
		t.Fatalf("keys delete error = %v", err)
	}
	if _, err := runCLI(t, dir, "keys", "delete", "example.com", "gh"); err == nil {
		t.Error("second keys delete error = nil, want not found")
	}
}

func TestKeysSetIncomplete(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "keys", "set", "example.com", "gh", "-a", "navigate")
	if err == nil {
		t.Error("keys set without description error = nil, want error")
	}
}

func TestKeysImportExport(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tables.yaml")
	doc := `example.org:
  x:
    description: Close
    action: click
    selector: button.close
  gg:
    description: Top
    action: navigate
    url: /
`
	if err := os.WriteFile(file, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, dir, "keys", "import", file)
	if err != nil {
		t.Fatalf("keys import error = %v", err)
	}
	if !strings.Contains(out, "Imported 2 keybinds for example.org") {
		t.Errorf("keys import output = %q", out)
	}

	out, err = runCLI(t, dir, "--format", "json", "keys", "export", "example.org")
	if err != nil {
		t.Fatalf("keys export error = %v", err)
	}
	binds, err := keybind.ParseString(out)
	if err != nil {
		t.Fatalf("Parse(export) error = %v; output = %s", err, out)
	}
	if binds["x"].Selector != "button.close" || binds["gg"].URL != "/" {
		t.Errorf("exported = %+v", binds)
	}
}

func TestDecodeTables(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  string
		host    string
		hosts   int
		wantErr bool
	}{
		{"json single", `{"j": {"description": "J", "action": "click", "selector": "a"}}`, formatJSON, "a.com", 1, false},
		{"json domains", `{"a.com": {}, "b.com": {}}`, formatJSON, "", 2, false},
		{"json invalid", `{"j": {"action": "click"}}`, formatJSON, "a.com", 0, true},
		{"yaml single", "j:\n  description: J\n  action: script\n  script: x()\n", formatYAML, "a.com", 1, false},
		{"yaml empty single", "", formatYAML, "a.com", 1, false},
		{"yaml domains", "a.com:\n  j:\n    description: J\n    action: navigate\n    url: /\n", formatYAML, "", 1, false},
		{"yaml no tables", "", formatYAML, "", 0, true},
		{"yaml invalid action", "a.com:\n  j:\n    description: J\n    action: jump\n", formatYAML, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeTables([]byte(tt.data), tt.format, tt.host)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeTables() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.hosts {
				t.Errorf("len(decodeTables()) = %d, want %d", len(got), tt.hosts)
			}
		})
	}
}

func TestFormatForFile(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.yaml", formatYAML},
		{"a.YML", formatYAML},
		{"a.json", formatJSON},
		{"a.txt", formatJSON},
	}
	for _, tt := range tests {
		if got := formatForFile(tt.path, formatJSON); got != tt.want {
			t.Errorf("formatForFile(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := runCLI(t, t.TempDir(), "--format", "xml", "keys", "list"); err == nil {
		t.Error("--format xml error = nil, want error")
	}
}

func TestWriteValueYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := writeValue(&buf, formatYAML, []string{"a"}); err != nil {
		t.Fatalf("writeValue() error = %v", err)
	}
	if got := buf.String(); got != "- a\n" {
		t.Errorf("writeValue(yaml) = %q, want %q", got, "- a\n")
	}
}

func writePage(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "page.html")
	doc := `<html><body><main><button>one</button><button>two</button></main></body></html>`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReplay(t *testing.T) {
	dir := t.TempDir()
	page := writePage(t, dir)

	if _, err := runCLI(t, dir, "keys", "set", "example.com", "gr", "-d", "Repos", "-a", "navigate", "-v", "/repos"); err != nil {
		t.Fatalf("keys set error = %v", err)
	}

	out, err := runCLI(t, dir, "--format", "json", "replay", "https://example.com/", "xgr", "--html", page)
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	var report replayReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("replay output %q: %v", out, err)
	}
	if report.Final != "https://example.com/repos" {
		t.Errorf("Final = %q, want https://example.com/repos", report.Final)
	}

	wantOutcomes := []string{"dead-end", "partial", "full"}
	if len(report.Keys) != len(wantOutcomes) {
		t.Fatalf("len(Keys) = %d, want %d", len(report.Keys), len(wantOutcomes))
	}
	for i, want := range wantOutcomes {
		if report.Keys[i].Outcome != want {
			t.Errorf("Keys[%d].Outcome = %q, want %q", i, report.Keys[i].Outcome, want)
		}
	}
	if report.Keys[2].Matched != "gr" || report.Keys[2].Action != "navigate" {
		t.Errorf("Keys[2] = %+v", report.Keys[2])
	}
}

func TestPick(t *testing.T) {
	dir := t.TempDir()
	page := writePage(t, dir)

	out, err := runCLI(t, dir, "pick", "https://example.com/", "main button:last-child", "--html", page, "-k", "t", "-d", "Second")
	if err != nil {
		t.Fatalf("pick error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "main > button:nth-of-type(2)" {
		t.Fatalf("pick output = %q", out)
	}

	out, err = runCLI(t, dir, "--format", "json", "keys", "export", "example.com")
	if err != nil {
		t.Fatalf("keys export error = %v", err)
	}
	binds, err := keybind.ParseString(out)
	if err != nil {
		t.Fatalf("Parse(export) error = %v", err)
	}
	if got := binds["t"]; got.Type != keybind.ActionClick || got.Selector != "main > button:nth-of-type(2)" {
		t.Errorf("binds[t] = %+v", got)
	}
}
