package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/simon/yati/internal/lifecycle"
	"github.com/simon/yati/internal/tui"
	"github.com/simon/yati/internal/ui"
)

func SetVersionInfo(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
}

var rootCmd = &cobra.Command{
	Use:   "yati",
	Short: "Map git branches to worktrees and tmux sessions",
	Long: `yati keeps one git worktree per branch under ~/.yati/<project>/<branch>
and one tmux session per worktree, named <project>/<branch>.

Run without arguments in a terminal to pick a worktree interactively.
Set ` + lifecycle.RootEnvVar + ` to keep worktrees somewhere other than ~/.yati.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			log.SetLevel(log.DebugLevel)
			log.Debug("Debug logging enabled")
		}
	},
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsTerminal(os.Stdin) || !ui.IsTerminal(os.Stdout) {
			return cmd.Help()
		}
		return withApp(cmd.Context(), runPicker)
	},
}

// runPicker shows the worktree picker until the user quits or picks an
// action that ends the session. Attaching from outside tmux blocks until
// the user detaches, after which the picker is shown again.
func runPicker(ctx context.Context, a *app) error {
	for {
		p := tea.NewProgram(tui.NewModel(a.pickerItems(ctx)), tea.WithAltScreen())
		finalModel, err := p.Run()
		if err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}

		final := finalModel.(tui.Model)
		switch final.Action {
		case tui.Activate:
			if err := a.manager.Activate(ctx, final.Target.String()); err != nil {
				return err
			}
			if a.env.Inside() {
				return nil
			}
		case tui.Teardown:
			if err := a.manager.TeardownIdentity(ctx, final.Target, false); err != nil {
				return err
			}
		case tui.Create:
			return a.manager.Create(ctx, final.Branch)
		default:
			return nil
		}
	}
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.NewPrinter(os.Stderr).Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
