package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/browsermotion/internal/input/key"
)

// replayReport is the output of the replay command.
type replayReport struct {
	Start   string      `yaml:"start" json:"start"`
	Final   string      `yaml:"final" json:"final"`
	Keys    []keyReport `yaml:"keys" json:"keys"`
	History []string    `yaml:"history" json:"history"`
	Clicks  int         `yaml:"clicks" json:"clicks"`
}

type keyReport struct {
	Key      string `yaml:"key" json:"key"`
	Outcome  string `yaml:"outcome" json:"outcome"`
	Suppress bool   `yaml:"suppress" json:"suppress"`
	Matched  string `yaml:"matched,omitempty" json:"matched,omitempty"`
	Action   string `yaml:"action,omitempty" json:"action,omitempty"`
}

func newReplayCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <url> <keys>",
		Short: "Type a key string on a page and report what happened",
		Long: "Feed each character of <keys> to a session on <url> as a separate keystroke, " +
			"spaced by --gap, then report each outcome and where the page ended up.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gap, _ := cmd.Flags().GetDuration("gap")

			p, err := openPage(ctx, cmd, e, args[0])
			if err != nil {
				return err
			}
			s, err := startSession(ctx, e, p, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			report := replayReport{Start: p.URL().String()}
			ts := time.Now()
			for _, r := range args[1] {
				res := s.HandleKey(ctx, key.NewEvent(string(r), key.ModNone).At(ts))
				report.Keys = append(report.Keys, keyReport{
					Key:      string(r),
					Outcome:  res.Outcome.String(),
					Suppress: res.Suppress,
					Matched:  res.Matched,
					Action:   string(res.Action.Type),
				})
				ts = ts.Add(gap)
			}

			report.Final = p.URL().String()
			report.History = p.History()
			report.Clicks = len(p.Clicks())
			return writeValue(cmd.OutOrStdout(), e.format, report)
		},
	}
	addPageFlags(cmd)
	cmd.Flags().Duration("gap", 100*time.Millisecond, "Time between keystrokes")
	return cmd
}
