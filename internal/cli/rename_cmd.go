package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stempelbot/stempel/internal/cli/formatter"
	"github.com/stempelbot/stempel/internal/domain"
)

func newRenameCmd(app *App, ident *identityFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Relabel one of your activities across history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Renames.Rename(cmd.Context(), ident.userID, args[0], args[1])
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrActivityNotFound):
					return fmt.Errorf("no activity %q found in your history", args[0])
				case errors.Is(err, domain.ErrEmptyActivity):
					return fmt.Errorf("new label is empty after normalization")
				}
				return err
			}
			if result.NoOp {
				fmt.Fprintf(cmd.OutOrStdout(), "both labels normalize to %s, nothing to do\n",
					formatter.StyleDim.Render(result.Canonical))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed to %s (%d sessions updated, %d archive rows merged)\n",
				formatter.StyleGreen.Render(result.Canonical),
				result.SessionsUpdated, result.ArchiveRowsMerged)
			return nil
		},
	}
}
