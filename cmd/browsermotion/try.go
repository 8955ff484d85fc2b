package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/browsermotion/internal/input"
	"github.com/dshills/browsermotion/internal/input/key"
	"github.com/dshills/browsermotion/internal/session"
	"github.com/dshills/browsermotion/internal/terminal"
)

func newTryCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "try <url>",
		Short: "Type keybinds live against a page in the terminal",
		Long:  "Open a session on <url> and feed terminal keystrokes into it. Ctrl+C quits.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// The screen owns the terminal; log output would corrupt it.
			e.logger = slog.New(slog.DiscardHandler)

			p, err := openPage(ctx, cmd, e, args[0])
			if err != nil {
				return err
			}
			s, err := startSession(ctx, e, p, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			term, err := terminal.New(nil)
			if err != nil {
				return err
			}
			if err := term.Init(); err != nil {
				return err
			}
			defer term.Fini()

			var last input.Result
			var lastKey key.Event
			term.Draw(statusLines(s, lastKey, last))
			return term.Run(ctx, func(ev key.Event) bool {
				if ev.Key == "c" && ev.Modifiers.HasCtrl() {
					return false
				}
				last, lastKey = s.HandleKey(ctx, ev), ev
				term.Draw(statusLines(s, lastKey, last))
				return true
			})
		},
	}
	addPageFlags(cmd)
	return cmd
}

func statusLines(s *session.Session, ev key.Event, res input.Result) []string {
	p := s.Page()
	table := s.Recognizer().Table()

	lines := []string{
		"browsermotion: " + p.URL().String(),
		fmt.Sprintf("host %s, %d keybinds, topbar open: %v", p.Host(), table.Len(), s.TopbarOpen()),
		"",
	}
	if ev.Key != "" {
		line := fmt.Sprintf("key %s: %s", ev.String(), res.Outcome)
		if res.Suppress {
			line += " (suppressed)"
		}
		switch res.Outcome {
		case input.OutcomePartial:
			line += ", pending " + res.Sequence
		case input.OutcomeFull:
			line += fmt.Sprintf(", %q -> %s: %s", res.Matched, res.Action.Type, res.Action.Description)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", "keybinds:")
	binds := table.Keybinds()
	for _, k := range table.Keys() {
		a := binds[k]
		lines = append(lines, fmt.Sprintf("  %-6s %-11s %s", k, a.Type, a.Description))
	}
	lines = append(lines, "", "history: "+strings.Join(p.History(), " -> "), "ctrl+c quits")
	return lines
}
