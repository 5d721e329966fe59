package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stempelbot/stempel/internal/cli/formatter"
	"github.com/stempelbot/stempel/internal/domain"
)

func windowFromFlag(allTime bool) domain.Window {
	if allTime {
		return domain.WindowAllTime
	}
	return domain.WindowCurrentWeek
}

func newLeaderboardCmd(app *App) *cobra.Command {
	var allTime bool
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the weekly or all-time leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window := windowFromFlag(allTime)
			entries, err := app.Reports.Leaderboard(cmd.Context(), window)
			if err != nil {
				return err
			}
			title := "This week"
			if allTime {
				title = "All time"
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.Leaderboard(title, entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&allTime, "all-time", false, "rank over the full archive instead of the current week")
	return cmd
}

func newBreakdownCmd(app *App, ident *identityFlags) *cobra.Command {
	var (
		allTime bool
		mine    bool
	)
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show per-activity totals grouped by user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window := windowFromFlag(allTime)
			userID := ""
			if mine {
				userID = ident.userID
			}
			entries, err := app.Reports.ActivityBreakdown(cmd.Context(), window, userID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.Breakdown(entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&allTime, "all-time", false, "aggregate over the full archive instead of the current week")
	cmd.Flags().BoolVar(&mine, "mine", false, "only show the acting user's activities")
	return cmd
}

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the current week's summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.Reports.WeeklySummary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.Summary(summary))
			return nil
		},
	}
}
