package lifecycle

import (
	"context"

	yerrors "github.com/simon/yati/internal/errors"
	"github.com/simon/yati/internal/session"
	"github.com/simon/yati/internal/state"
	"github.com/simon/yati/internal/workspace"
)

// Teardown removes the worktree containing the current directory and its
// session.
func (m *Manager) Teardown(ctx context.Context, force bool) error {
	id, err := m.worktrees.Layout().FromDir(m.env.Dir)
	if err != nil {
		return err
	}
	return m.TeardownIdentity(ctx, id, force)
}

// TeardownIdentity removes the worktree of id, prunes directories left
// empty and kills its session. The pre_teardown hooks always run first;
// without force a worktree with uncommitted changes or untracked files is
// then refused, leaving the worktree and its session in place.
func (m *Manager) TeardownIdentity(ctx context.Context, id workspace.Identity, force bool) error {
	layout := m.worktrees.Layout()
	if !layout.Exists(id) {
		return yerrors.NoSuchWorktree(id.String())
	}
	path := layout.Path(id)

	primary, err := m.worktrees.Primary(ctx, path)
	if err != nil {
		return err
	}
	cfg, err := m.loadConfig(primary.Path)
	if err != nil {
		return err
	}

	m.runHooks(ctx, "pre_teardown", cfg.PreTeardown, path)

	m.report.Info("Removing worktree at %s", path)
	if err := m.worktrees.Remove(ctx, primary.Path, id, force); err != nil {
		return err
	}
	m.worktrees.PruneEmpty(id)
	m.record(ctx, state.TornDown, id, path)

	name := session.Name(id)
	if m.sessions.Exists(ctx, name) {
		// Never kill the session this client is looking at.
		if m.sessions.Inside() && m.sessions.Current(ctx) == name {
			if _, err := m.sessions.SwitchToPreviousOrDetach(ctx); err != nil {
				m.report.Warn("failed to leave session '%s': %v", name, err)
			}
		}
		m.report.Info("Killing tmux session '%s'", name)
		if err := m.sessions.Kill(ctx, name); err != nil {
			m.report.Warn("%v", err)
		}
	}

	m.report.Success("Worktree '%s' removed", id)
	return nil
}
