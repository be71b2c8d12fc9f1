package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/simon/yati/internal/git"
)

var createCmd = &cobra.Command{
	Use:   "create <branch>",
	Short: "Create a worktree and tmux session for a branch",
	Long: `Create a worktree for <branch> under ~/.yati/<project>/<branch>, copy the
configured files into it, run the post_create hooks and start a tmux session
named <project>/<branch>. The branch is created if it does not exist yet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			return a.manager.Create(ctx, args[0])
		})
	},
	ValidArgsFunction: completeBranches,
}

func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	dir, _ := os.Getwd()
	branches, err := git.NewService().LocalBranches(cmd.Context(), dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(createCmd)
}
