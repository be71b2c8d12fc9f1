// Package lifecycle sequences the identity resolver, worktree store and
// session controller through create, activate, deactivate and teardown.
//
// Hook failures and best-effort cleanup only produce warnings. Every git,
// tmux or filesystem mutation failure aborts the operation and is returned
// with the collaborator's diagnostic.
package lifecycle

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/simon/yati/internal/config"
	"github.com/simon/yati/internal/filecopy"
	"github.com/simon/yati/internal/session"
	"github.com/simon/yati/internal/state"
	"github.com/simon/yati/internal/workspace"
	"github.com/simon/yati/internal/worktree"
)

// Repo answers questions about the repository around a directory.
type Repo interface {
	RepoRoot(ctx context.Context, dir string) (string, error)
	ProjectName(ctx context.Context, dir string) (string, error)
	ValidateBranchName(ctx context.Context, name string) error
}

// Worktrees is the worktree store.
type Worktrees interface {
	Layout() workspace.Layout
	Create(ctx context.Context, repoDir string, id workspace.Identity) (string, error)
	List(ctx context.Context, dir string) ([]worktree.Record, error)
	Primary(ctx context.Context, dir string) (worktree.Record, error)
	Remove(ctx context.Context, repoDir string, id workspace.Identity, force bool) error
	PruneEmpty(id workspace.Identity) []string
}

// Sessions is the session controller.
type Sessions interface {
	Inside() bool
	Exists(ctx context.Context, name string) bool
	CreateWithWindows(ctx context.Context, name, dir string, windows []session.Window) ([]error, error)
	AttachOrSwitch(ctx context.Context, name string) error
	SwitchToPreviousOrDetach(ctx context.Context) (bool, error)
	Current(ctx context.Context) string
	Kill(ctx context.Context, name string) error
	Live(ctx context.Context) map[string]session.Session
}

// Reporter shows progress to the user.
type Reporter interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Success(format string, args ...interface{})
}

// Journal records lifecycle events for display purposes.
type Journal interface {
	Record(ctx context.Context, kind state.EventKind, session, path string) error
}

// Manager runs lifecycle operations for one process environment.
type Manager struct {
	env       Env
	repo      Repo
	worktrees Worktrees
	sessions  Sessions
	hooks     HookRunner
	report    Reporter
	journal   Journal

	loadConfig func(dir string) (*config.Config, error)
	copyFiles  func(srcRoot, dstRoot string, entries, exclude []string) ([]string, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithJournal records events to j.
func WithJournal(j Journal) Option {
	return func(m *Manager) { m.journal = j }
}

// WithConfigLoader replaces config.Load.
func WithConfigLoader(load func(dir string) (*config.Config, error)) Option {
	return func(m *Manager) { m.loadConfig = load }
}

// New returns a Manager. Hooks and reporter are required; the journal is
// optional.
func New(env Env, repo Repo, worktrees Worktrees, sessions Sessions, hooks HookRunner, report Reporter, opts ...Option) *Manager {
	m := &Manager{
		env:        env,
		repo:       repo,
		worktrees:  worktrees,
		sessions:   sessions,
		hooks:      hooks,
		report:     report,
		loadConfig: config.Load,
		copyFiles:  filecopy.Copy,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolver returns the identity resolver for the manager's environment.
func (m *Manager) Resolver() *workspace.Resolver {
	return &workspace.Resolver{
		Layout: m.worktrees.Layout(),
		Dir:    m.env.Dir,
		CurrentProject: func(ctx context.Context) (string, error) {
			return m.repo.ProjectName(ctx, m.env.Dir)
		},
	}
}

func (m *Manager) record(ctx context.Context, kind state.EventKind, id workspace.Identity, path string) {
	if m.journal == nil {
		return
	}
	if err := m.journal.Record(ctx, kind, session.Name(id), path); err != nil {
		log.Warn("failed to record activity", "event", kind, "worktree", id, "err", err)
	}
}

// startSession creates the session for id with the configured windows.
// Window failures are reported as warnings.
func (m *Manager) startSession(ctx context.Context, name, dir string, cfg *config.Config) error {
	windows := make([]session.Window, 0, len(cfg.Tmux.Windows))
	for _, w := range cfg.Tmux.Windows {
		windows = append(windows, session.Window{Name: w.Name, Command: w.Command})
	}
	warnings, err := m.sessions.CreateWithWindows(ctx, name, dir, windows)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		m.report.Warn("tmux %v", w)
	}
	return nil
}
