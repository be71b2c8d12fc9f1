package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var deactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Leave the current worktree's tmux session without closing it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			return a.manager.Deactivate(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(deactivateCmd)
}
