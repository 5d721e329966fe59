// Package cli wires the local command surface over the ledger services. It
// is a stand-in consumer for the chat-platform command layer and carries no
// aggregation logic of its own.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/stempelbot/stempel/internal/cli/formatter"
	"github.com/stempelbot/stempel/internal/rollup"
	"github.com/stempelbot/stempel/internal/service"
)

// App aggregates the services the commands dispatch to.
type App struct {
	Sessions  service.ClockService
	Reports   service.ReportService
	Renames   service.RenameService
	Scheduler *rollup.Scheduler

	// IsInteractive reports whether stdout is a terminal; non-interactive
	// output skips decoration.
	IsInteractive func() bool
}

// identityFlags carries the acting user, normally supplied by the chat
// platform and here taken from flags or the environment.
type identityFlags struct {
	userID   string
	username string
}

func (f *identityFlags) register(cmd *cobra.Command) {
	defaultUser := os.Getenv("STEMPEL_USER")
	if defaultUser == "" {
		defaultUser = os.Getenv("USER")
	}
	cmd.PersistentFlags().StringVar(&f.userID, "user", defaultUser, "acting user id")
	cmd.PersistentFlags().StringVar(&f.username, "name", "", "display name (defaults to user id)")
}

func (f *identityFlags) displayName() string {
	if f.username != "" {
		return f.username
	}
	return f.userID
}

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stempel",
		Short:         "Track work sessions and weekly leaderboards",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.IsInteractive != nil && !app.IsInteractive() {
				formatter.DisableStyles()
			}
		},
	}

	ident := &identityFlags{}
	ident.register(rootCmd)

	rootCmd.AddCommand(
		newInCmd(app, ident),
		newOutCmd(app, ident),
		newStatusCmd(app, ident),
		newWhoCmd(app),
		newLeaderboardCmd(app),
		newBreakdownCmd(app, ident),
		newSummaryCmd(app),
		newRenameCmd(app, ident),
		newServeCmd(app),
	)
	return rootCmd
}
