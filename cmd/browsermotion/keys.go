package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/browsermotion/internal/authoring"
	"github.com/dshills/browsermotion/internal/keybind"
)

// entryView is one keybind as printed by keys list.
type entryView struct {
	Keys        string `yaml:"keys" json:"keys"`
	Description string `yaml:"description" json:"description"`
	Action      string `yaml:"action" json:"action"`
	Value       string `yaml:"value,omitempty" json:"value,omitempty"`
	Conditions  int    `yaml:"conditions,omitempty" json:"conditions,omitempty"`
}

func newKeysCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List and edit keybind tables",
	}
	cmd.AddCommand(
		newKeysListCmd(e),
		newKeysSetCmd(e),
		newKeysDeleteCmd(e),
		newKeysExportCmd(e),
		newKeysImportCmd(e),
	)
	return cmd
}

func newKeysListCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [host]",
		Short: "List keybinds for a host, or the hosts with stored tables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				hosts, err := e.keybinds.Hosts(ctx)
				if err != nil {
					return err
				}
				return writeValue(cmd.OutOrStdout(), e.format, hosts)
			}

			search, _ := cmd.Flags().GetString("search")
			entries, err := authoring.New(e.keybinds, authoring.WithLogger(e.logger)).List(ctx, args[0], search)
			if err != nil {
				return err
			}
			views := make([]entryView, 0, len(entries))
			for _, en := range entries {
				views = append(views, entryView{
					Keys:        en.Keys,
					Description: en.Action.Description,
					Action:      string(en.Action.Type),
					Value:       en.Action.Value(),
					Conditions:  len(en.Action.Conditions),
				})
			}
			return writeValue(cmd.OutOrStdout(), e.format, views)
		},
	}
	cmd.Flags().StringP("search", "s", "", "Only show keybinds whose keys or description contain this text")
	return cmd
}

func newKeysSetCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <host> <keys>",
		Short: "Add or replace a keybind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, _ := cmd.Flags().GetString("description")
			action, _ := cmd.Flags().GetString("action")
			value, _ := cmd.Flags().GetString("value")

			draft := authoring.Draft{
				Keys:        args[1],
				Description: desc,
				Type:        keybind.ActionType(action),
				Value:       value,
			}
			created, err := authoring.New(e.keybinds, authoring.WithLogger(e.logger)).Save(cmd.Context(), args[0], draft)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "Keybind added!")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Keybind updated!")
			}
			return nil
		},
	}
	cmd.Flags().StringP("description", "d", "", "What the keybind does")
	cmd.Flags().StringP("action", "a", string(keybind.ActionNavigate), "Action: navigate, click, script")
	cmd.Flags().StringP("value", "v", "", "URL, selector or script")
	return cmd
}

func newKeysDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <host> [keys]",
		Short: "Delete one keybind, or the whole stored table for a host",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				if err := e.keybinds.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted keybinds for %s\n", args[0])
				return nil
			}
			if err := authoring.New(e.keybinds, authoring.WithLogger(e.logger)).Delete(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Keybind deleted!")
			return nil
		},
	}
}

func newKeysExportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export [host]",
		Short: "Print the table for a host, or every stored table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				binds, _, err := e.keybinds.Load(ctx, args[0])
				if err != nil {
					return err
				}
				return writeValue(cmd.OutOrStdout(), e.format, binds)
			}

			hosts, err := e.keybinds.Hosts(ctx)
			if err != nil {
				return err
			}
			all := make(map[string]keybind.DomainKeybinds, len(hosts))
			for _, h := range hosts {
				binds, _, err := e.keybinds.Load(ctx, h)
				if err != nil {
					return err
				}
				all[h] = binds
			}
			return writeValue(cmd.OutOrStdout(), e.format, all)
		},
	}
}

func newKeysImportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store tables from a YAML or JSON file",
		Long:  "Store tables from a file. With --host the file holds one table; otherwise it maps hosts to tables. Each imported table replaces the stored one.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			host, _ := cmd.Flags().GetString("host")
			format := formatForFile(args[0], e.format)

			tables, err := decodeTables(data, format, host)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			for h, binds := range tables {
				if err := e.keybinds.Save(cmd.Context(), h, binds); err != nil {
					return fmt.Errorf("import %s: %w", h, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d keybinds for %s\n", len(binds), h)
			}
			return nil
		},
	}
	cmd.Flags().String("host", "", "Import the file as the table for this host")
	return cmd
}

// decodeTables reads host tables from data. With host set, data is a
// single table.
func decodeTables(data []byte, format, host string) (map[string]keybind.DomainKeybinds, error) {
	if format == formatJSON {
		if host != "" {
			binds, err := keybind.Parse(data)
			if err != nil {
				return nil, err
			}
			return map[string]keybind.DomainKeybinds{host: binds}, nil
		}
		sites, err := keybind.ParseDomains(data)
		if err != nil {
			return nil, err
		}
		out := make(map[string]keybind.DomainKeybinds, len(sites))
		for _, s := range sites {
			out[s.Site] = s.Keybinds
		}
		return out, nil
	}

	if host != "" {
		var binds keybind.DomainKeybinds
		if err := yaml.Unmarshal(data, &binds); err != nil {
			return nil, err
		}
		if binds == nil {
			binds = keybind.DomainKeybinds{}
		}
		return map[string]keybind.DomainKeybinds{host: binds}, binds.Validate()
	}
	var out map[string]keybind.DomainKeybinds
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no tables found")
	}
	for h, binds := range out {
		if err := binds.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", h, err)
		}
	}
	return out, nil
}
