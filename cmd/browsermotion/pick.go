package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/browsermotion/internal/authoring"
	"github.com/dshills/browsermotion/internal/event"
)

func newPickCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick <url> <element>",
		Short: "Synthesize the selector for an element, optionally binding it",
		Long: "Run the element picker on a page: the element matched by <element> (any CSS selector) is hovered and clicked, " +
			"and the selector the picker synthesizes is printed. With --keys the result is saved as a click keybind.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := openPage(ctx, cmd, e, args[0])
			if err != nil {
				return err
			}

			bus := event.NewBus(event.WithLogger(e.logger))
			s, err := startSession(ctx, e, p, bus)
			if err != nil {
				return err
			}
			defer s.Close()

			target, err := p.QuerySelector(args[1])
			if err != nil {
				return err
			}
			if target == nil {
				return fmt.Errorf("no element matches %q", args[1])
			}

			keys, _ := cmd.Flags().GetString("keys")
			desc, _ := cmd.Flags().GetString("description")
			svc := authoring.New(e.keybinds, authoring.WithBus(bus), authoring.WithLogger(e.logger))
			defer svc.Close()
			if err := svc.PickSelector(ctx, authoring.Draft{Keys: keys, Description: desc}); err != nil {
				return err
			}

			if preview := s.HandlePointerMove(target); preview.Intercept {
				fmt.Fprintln(cmd.ErrOrStderr(), preview.Text())
			}
			pick, err := s.HandleClick(ctx, target)
			if err != nil {
				return err
			}
			if pick.Selector == "" {
				return errors.New("element is inside the authoring UI and cannot be picked")
			}
			fmt.Fprintln(cmd.OutOrStdout(), pick.Selector)

			if keys == "" {
				return nil
			}
			draft, _ := svc.Pending()
			if _, err := svc.Save(ctx, p.Host(), draft); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bound %q on %s\n", keys, p.Host())
			return nil
		},
	}
	addPageFlags(cmd)
	cmd.Flags().StringP("keys", "k", "", "Save the selector as a click keybind on these keys")
	cmd.Flags().StringP("description", "d", "", "Description for the saved keybind")
	return cmd
}
