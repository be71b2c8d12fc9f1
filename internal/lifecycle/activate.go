package lifecycle

import (
	"context"

	yerrors "github.com/simon/yati/internal/errors"
	"github.com/simon/yati/internal/session"
	"github.com/simon/yati/internal/state"
)

// Activate focuses the session of target, creating it first when it does
// not exist. Creating runs the post_create hooks again, which makes
// activate the way back after tmux lost its sessions.
func (m *Manager) Activate(ctx context.Context, target string) error {
	id, err := m.Resolver().Resolve(ctx, target)
	if err != nil {
		return err
	}
	layout := m.worktrees.Layout()
	if !layout.Exists(id) {
		return yerrors.NoSuchWorktree(target)
	}
	path := layout.Path(id)
	name := session.Name(id)

	if m.sessions.Exists(ctx, name) {
		m.report.Info("Switching to existing session '%s'", name)
	} else {
		primary, err := m.worktrees.Primary(ctx, path)
		if err != nil {
			return err
		}
		cfg, err := m.loadConfig(primary.Path)
		if err != nil {
			return err
		}

		m.runHooks(ctx, "post_create", cfg.PostCreate, path)

		m.report.Info("Creating tmux session '%s'", name)
		if err := m.startSession(ctx, name, path, cfg); err != nil {
			return err
		}
	}

	m.record(ctx, state.Activated, id, path)
	return m.sessions.AttachOrSwitch(ctx, name)
}

// Deactivate moves the tmux client away from the session of the worktree
// containing the current directory, leaving the session running.
func (m *Manager) Deactivate(ctx context.Context) error {
	if !m.sessions.Inside() {
		return yerrors.NotInSession()
	}
	id, err := m.worktrees.Layout().FromDir(m.env.Dir)
	if err != nil {
		return err
	}

	switched, err := m.sessions.SwitchToPreviousOrDetach(ctx)
	if err != nil {
		return err
	}
	m.record(ctx, state.Deactivated, id, m.worktrees.Layout().Path(id))
	if switched {
		m.report.Success("Deactivated '%s'", id)
	} else {
		m.report.Success("Deactivated '%s', detached from tmux", id)
	}
	return nil
}
