package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stempelbot/stempel/internal/cli/formatter"
	"github.com/stempelbot/stempel/internal/domain"
	"github.com/stempelbot/stempel/internal/week"
)

func newInCmd(app *App, ident *identityFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "in <activity>",
		Short: "Clock in to an activity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			session, err := app.Sessions.ClockIn(cmd.Context(), ident.userID, ident.displayName(), raw)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrAlreadyActive):
					return fmt.Errorf("you already have an active session; clock out first")
				case errors.Is(err, domain.ErrEmptyActivity):
					return fmt.Errorf("activity label is empty after normalization")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "clocked in: %s\n", formatter.StyleGreen.Render(session.Activity))
			return nil
		},
	}
}

func newOutCmd(app *App, ident *identityFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "out",
		Short: "Clock out of the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Sessions.ClockOut(cmd.Context(), ident.userID)
			if err != nil {
				if errors.Is(err, domain.ErrNoActiveSession) {
					return fmt.Errorf("no active session to clock out of")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "clocked out: %s after %s\n",
				result.Activity, formatter.StyleGreen.Render(formatter.Duration(result.Minutes)))
			return nil
		},
	}
}

func newStatusCmd(app *App, ident *identityFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your active session, if any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.Sessions.ActiveSession(cmd.Context(), ident.userID)
			if err != nil {
				if errors.Is(err, domain.ErrNoActiveSession) {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleDim.Render("not clocked in"))
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "working on %s since %s\n",
				formatter.StyleGreen.Render(session.Activity),
				session.StartedAt.Format(week.TimeLayout))
			return nil
		},
	}
}

func newWhoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "who",
		Short: "List everyone currently clocked in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Sessions.WhoIsActive(cmd.Context())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleDim.Render("nobody is clocked in"))
				return nil
			}
			for _, s := range sessions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  since %s\n",
					s.Username, formatter.StyleGreen.Render(s.Activity),
					s.StartedAt.Format(week.TimeLayout))
			}
			return nil
		},
	}
}
