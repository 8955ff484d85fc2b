package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/browsermotion/internal/config"
	"github.com/dshills/browsermotion/internal/defaults"
	"github.com/dshills/browsermotion/internal/store"
)

// env is what every command works with. It is built in the root command's
// PersistentPreRunE and released in PersistentPostRunE.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    store.Store
	keybinds *store.Keybinds
	format   string
}

func (e *env) close() error {
	if e == nil || e.store == nil {
		return nil
	}
	return e.store.Close()
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "browsermotion",
		Short:         "Per-website keyboard shortcuts",
		Long:          "Manage per-website keybinds and exercise them against pages: list and edit tables, pick element selectors, replay key sequences, or type live in a terminal.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to config file (default: user config dir)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("store", "", "Store backend: bbolt, file, memory")
	root.PersistentFlags().String("store-path", "", "Store database file or directory")
	root.PersistentFlags().String("format", "yaml", "Output format: yaml, json")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return e.open(cmd)
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return e.close()
	}

	root.AddCommand(
		newKeysCmd(e),
		newPickCmd(e),
		newReplayCmd(e),
		newTryCmd(e),
	)
	return root
}

func (e *env) open(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	overrides := map[string]any{}
	if v, _ := flags.GetString("log-level"); v != "" {
		overrides["log"] = map[string]any{"level": v}
	}
	storeOverrides := map[string]any{}
	if v, _ := flags.GetString("store"); v != "" {
		storeOverrides["backend"] = v
	}
	if v, _ := flags.GetString("store-path"); v != "" {
		storeOverrides["path"] = v
	}
	if len(storeOverrides) > 0 {
		overrides["store"] = storeOverrides
	}
	if err := cfg.Apply(overrides); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.format, _ = flags.GetString("format")
	if e.format != formatYAML && e.format != formatJSON {
		return fmt.Errorf("unsupported format: %s (use yaml or json)", e.format)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	e.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	e.cfg = cfg

	table, err := defaults.LoadFile(cfg.Defaults.Path)
	if err != nil {
		return err
	}
	if table.Skipped != nil {
		e.logger.Warn("some default sites were skipped", "err", table.Skipped)
	}

	s, err := store.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	e.store = s
	e.keybinds = store.NewKeybinds(s,
		store.WithDefaults(table),
		store.WithLogger(e.logger.With("component", "store")),
	)
	e.logger.Debug("environment ready", "config", cfg.Source, "store", cfg.Store.Backend, "path", cfg.Store.Path)
	return nil
}
