package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/simon/yati/internal/lifecycle"
	"github.com/simon/yati/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the yati worktrees of the current project",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			project, entries, err := a.manager.List(ctx)
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), a.printer, project, entries)
			return nil
		})
	},
}

func printList(w io.Writer, p *ui.Printer, project string, entries []lifecycle.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No yati worktrees for project '%s'\n", project)
		return
	}

	fmt.Fprintf(w, "Yati worktrees for '%s':\n\n", project)
	for _, e := range entries {
		marker := " "
		if e.HasSession {
			marker = "●"
		}
		fmt.Fprintf(w, "%s %s (%s)\n", marker, p.Accent(e.Identity.Branch), e.ShortHead())
		fmt.Fprintf(w, "    %s\n", p.Faint(e.Path))
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
