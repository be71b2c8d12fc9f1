package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/simon/yati/internal/lifecycle"
)

var activateCmd = &cobra.Command{
	Use:   "activate <target>",
	Short: "Switch to (or attach) the tmux session of a worktree",
	Long: `Activate the worktree named by <target>, either a branch of the current
project or <project>/<branch>. The session is created, and the post_create
hooks rerun, when it does not exist.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			return a.manager.Activate(ctx, args[0])
		})
	},
	ValidArgsFunction: completeWorktrees,
}

// completeWorktrees offers <project>/<branch> for every worktree under the
// base root.
func completeWorktrees(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	env, err := lifecycle.LoadEnv()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var targets []string
	for _, id := range env.Layout().FindWorktrees() {
		targets = append(targets, id.String())
	}
	return targets, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(activateCmd)
}
