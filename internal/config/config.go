package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/dshills/browsermotion/internal/config/loader"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BROWSERMOTION_"

// AppName names the per-user config and data directories.
const AppName = "browsermotion"

// Config is the merged configuration.
type Config struct {
	Input    InputConfig
	Store    StoreConfig
	Defaults DefaultsConfig
	Script   ScriptConfig
	Log      LogConfig
	Picker   PickerConfig

	// Source is the file the configuration was read from, if any.
	Source string
}

// InputConfig configures the sequence recognizer.
type InputConfig struct {
	// SequenceTimeout is the longest pause allowed inside a key sequence.
	SequenceTimeout time.Duration
}

// StoreConfig selects the keybind store.
type StoreConfig struct {
	// Backend is "bbolt", "file" or "memory".
	Backend string

	// Path is the database file (bbolt) or directory (file).
	Path string

	// Watch reloads keybinds when the file backend changes on disk.
	Watch bool
}

// DefaultsConfig locates the default keybind document.
type DefaultsConfig struct {
	// Path overrides the built-in document when set.
	Path string
}

// ScriptConfig configures the script runner.
type ScriptConfig struct {
	Enabled bool
	Timeout time.Duration
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string
}

// PickerConfig configures the element picker.
type PickerConfig struct {
	// UIRoot selects the authoring UI; the picker ignores it.
	UIRoot string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input: InputConfig{SequenceTimeout: time.Second},
		Store: StoreConfig{
			Backend: "bbolt",
			Path:    filepath.Join(DataDir(), "keybinds.db"),
			Watch:   true,
		},
		Script: ScriptConfig{Enabled: true, Timeout: 5 * time.Second},
		Log:    LogConfig{Level: "info"},
		Picker: PickerConfig{UIRoot: "#browser-motion-root"},
	}
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(".", "."+AppName)
}

// DataDir returns the per-user data directory.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", AppName)
	}
	return filepath.Join(".", "."+AppName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the file at path, applies environment overrides and validates
// the result. An empty path means DefaultPath; a missing file is not an
// error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	var raw map[string]any
	for i, l := range []loader.Loader{loader.NewTOMLLoader(path), loader.NewEnvLoader(EnvPrefix)} {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		if i == 0 && m != nil {
			cfg.Source = path
		}
		raw = loader.DeepMerge(raw, m)
	}
	if err := cfg.Apply(raw); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply overlays a raw settings map onto c. Unknown settings are ignored.
func (c *Config) Apply(raw map[string]any) error {
	var errs []error
	get := func(path string, set func(v any) error) {
		v, ok := loader.Lookup(raw, path)
		if !ok {
			return
		}
		if err := set(v); err != nil {
			errs = append(errs, &ValidationError{Path: path, Message: err.Error(), Value: v})
		}
	}

	get("input.sequence_timeout", durationSetter(&c.Input.SequenceTimeout))
	get("store.backend", stringSetter(&c.Store.Backend))
	get("store.path", pathSetter(&c.Store.Path))
	get("store.watch", boolSetter(&c.Store.Watch))
	get("defaults.path", pathSetter(&c.Defaults.Path))
	get("script.enabled", boolSetter(&c.Script.Enabled))
	get("script.timeout", durationSetter(&c.Script.Timeout))
	get("log.level", stringSetter(&c.Log.Level))
	get("picker.ui_root", stringSetter(&c.Picker.UIRoot))

	return errors.Join(errs...)
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Input.SequenceTimeout <= 0 {
		errs = append(errs, &ValidationError{Path: "input.sequence_timeout", Message: "must be positive", Value: c.Input.SequenceTimeout})
	}
	switch c.Store.Backend {
	case "bbolt", "file":
		if c.Store.Path == "" {
			errs = append(errs, &ValidationError{Path: "store.path", Message: "required for " + c.Store.Backend, Value: ""})
		}
	case "memory":
	default:
		errs = append(errs, &ValidationError{Path: "store.backend", Message: "must be bbolt, file or memory", Value: c.Store.Backend})
	}
	if c.Script.Enabled && c.Script.Timeout <= 0 {
		errs = append(errs, &ValidationError{Path: "script.timeout", Message: "must be positive", Value: c.Script.Timeout})
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ValidationError{Path: "log.level", Message: err.Error(), Value: c.Log.Level})
	}
	return errors.Join(errs...)
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

func stringSetter(dst *string) func(any) error {
	return func(v any) error {
		s, err := cast.ToStringE(v)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(s)
		return nil
	}
}

func pathSetter(dst *string) func(any) error {
	return func(v any) error {
		s, err := cast.ToStringE(v)
		if err != nil {
			return err
		}
		*dst = expandHome(os.ExpandEnv(strings.TrimSpace(s)))
		return nil
	}
}

func boolSetter(dst *bool) func(any) error {
	return func(v any) error {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

// durationSetter accepts Go duration strings; bare integers are
// milliseconds.
func durationSetter(dst *time.Duration) func(any) error {
	return func(v any) error {
		switch n := v.(type) {
		case int64, int, float64:
			ms, err := cast.ToInt64E(n)
			if err != nil {
				return err
			}
			*dst = time.Duration(ms) * time.Millisecond
			return nil
		case string:
			if ms, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
				*dst = time.Duration(ms) * time.Millisecond
				return nil
			}
		}
		d, err := cast.ToDurationE(v)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
