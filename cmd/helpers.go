package cmd

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	pexec "github.com/simon/yati/internal/exec"
	"github.com/simon/yati/internal/git"
	"github.com/simon/yati/internal/lifecycle"
	"github.com/simon/yati/internal/session"
	"github.com/simon/yati/internal/state"
	"github.com/simon/yati/internal/tmux"
	"github.com/simon/yati/internal/tui"
	"github.com/simon/yati/internal/ui"
	"github.com/simon/yati/internal/worktree"
)

// app holds the collaborators of one invocation, built from the process
// environment exactly once.
type app struct {
	env     lifecycle.Env
	manager *lifecycle.Manager
	journal *state.Store
	printer *ui.Printer
}

func newApp() (*app, error) {
	env, err := lifecycle.LoadEnv()
	if err != nil {
		return nil, err
	}
	log.Debug("environment", "root", env.Root, "dir", env.Dir, "tmux", env.Inside())

	executor := pexec.NewRealExecutor()
	gitSvc := git.NewServiceWithExecutor(executor)
	sessions := session.New(tmux.NewClientWithExecutor(executor), env.Inside())
	printer := ui.NewPrinter(os.Stdout)

	a := &app{env: env, printer: printer}

	var opts []lifecycle.Option
	if journal, err := state.Open(state.DefaultPath(env.Home)); err != nil {
		log.Warn("activity journal unavailable", "err", err)
	} else {
		a.journal = journal
		opts = append(opts, lifecycle.WithJournal(journal))
	}

	a.manager = lifecycle.New(env, gitSvc,
		worktree.New(gitSvc, env.Layout()),
		sessions,
		lifecycle.NewShellHooks(executor),
		printer,
		opts...,
	)
	return a, nil
}

func (a *app) Close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			log.Debug("closing journal", "err", err)
		}
	}
}

// withApp builds the app, runs fn and releases the app.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// pickerItems returns the loader for the interactive picker.
func (a *app) pickerItems(ctx context.Context) tui.Loader {
	return func() ([]tui.Item, error) {
		var lastActive map[string]time.Time
		if a.journal != nil {
			var err error
			if lastActive, err = a.journal.LastActivated(ctx); err != nil {
				log.Debug("reading journal", "err", err)
			}
		}

		entries := a.manager.Overview(ctx)
		items := make([]tui.Item, 0, len(entries))
		for _, e := range entries {
			items = append(items, tui.Item{
				Identity:   e.Identity,
				Session:    e.Session,
				Path:       e.Path,
				HasSession: e.HasSession,
				Attached:   e.Attached,
				LastActive: lastActive[e.Session],
			})
		}
		return items, nil
	}
}
