package lifecycle

import (
	"context"

	yerrors "github.com/simon/yati/internal/errors"
	"github.com/simon/yati/internal/session"
	"github.com/simon/yati/internal/state"
	"github.com/simon/yati/internal/workspace"
)

// Create makes a worktree for branch of the repository around the current
// directory, prepares it and starts its session. Inside tmux the new
// session is focused; otherwise it is left detached.
func (m *Manager) Create(ctx context.Context, branch string) error {
	repoRoot, err := m.repo.RepoRoot(ctx, m.env.Dir)
	if err != nil {
		return err
	}
	project, err := m.repo.ProjectName(ctx, repoRoot)
	if err != nil {
		return err
	}
	if err := m.repo.ValidateBranchName(ctx, branch); err != nil {
		return err
	}

	primary, err := m.worktrees.Primary(ctx, repoRoot)
	if err != nil {
		return err
	}
	cfg, err := m.loadConfig(primary.Path)
	if err != nil {
		return err
	}

	id := workspace.Identity{Project: project, Branch: branch}
	m.report.Info("Creating worktree at %s", m.worktrees.Layout().Path(id))
	path, err := m.worktrees.Create(ctx, repoRoot, id)
	if err != nil {
		return err
	}
	m.record(ctx, state.Created, id, path)

	if len(cfg.CopyFiles) > 0 {
		m.report.Info("Copying configured files...")
		missing, err := m.copyFiles(primary.Path, path, cfg.CopyFiles, cfg.Exclude)
		if err != nil {
			return yerrors.IOFailed("lifecycle.Create", "failed to copy configured files", err)
		}
		for _, entry := range missing {
			m.report.Warn("copy_files entry not found: %s", entry)
		}
	}

	m.runHooks(ctx, "post_create", cfg.PostCreate, path)

	name := session.Name(id)
	if m.sessions.Exists(ctx, name) {
		m.report.Warn("tmux session '%s' already exists, reusing it", name)
	} else {
		if m.sessions.Inside() {
			m.report.Info("Creating tmux session '%s'", name)
		} else {
			m.report.Info("Creating detached tmux session '%s'", name)
		}
		if err := m.startSession(ctx, name, path, cfg); err != nil {
			return err
		}
	}

	if !m.sessions.Inside() {
		m.report.Info("Attach with: tmux attach -t '%s'", name)
		return nil
	}
	if err := m.sessions.AttachOrSwitch(ctx, name); err != nil {
		return err
	}
	m.record(ctx, state.Activated, id, path)
	return nil
}
