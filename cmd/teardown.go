package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Remove the current worktree and kill its tmux session",
	Long: `Run the pre_teardown hooks, remove the worktree containing the current
directory, delete directories left empty and kill its tmux session.

A worktree with uncommitted changes or untracked files is refused unless
--force is given. Ignored files never block teardown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			return a.manager.Teardown(ctx, force)
		})
	},
}

func init() {
	teardownCmd.Flags().BoolP("force", "f", false, "Remove the worktree even if it has uncommitted changes")
	rootCmd.AddCommand(teardownCmd)
}
