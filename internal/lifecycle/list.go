package lifecycle

import (
	"context"

	"github.com/simon/yati/internal/git"
	"github.com/simon/yati/internal/session"
	"github.com/simon/yati/internal/worktree"
)

// Entry is a yati worktree together with the state of its session.
type Entry struct {
	worktree.Record
	Session    string
	HasSession bool
	// Attached is set when a tmux client currently shows the session.
	Attached bool
}

func newEntry(rec worktree.Record, live map[string]session.Session) Entry {
	name := session.Name(rec.Identity)
	s, ok := live[name]
	return Entry{Record: rec, Session: name, HasSession: ok, Attached: ok && s.Attached()}
}

// List returns the yati worktrees of the current project in git's order.
func (m *Manager) List(ctx context.Context) (string, []Entry, error) {
	project, err := m.repo.ProjectName(ctx, m.env.Dir)
	if err != nil {
		return "", nil, err
	}
	records, err := m.worktrees.List(ctx, m.env.Dir)
	if err != nil {
		return project, nil, err
	}

	live := m.sessions.Live(ctx)
	var entries []Entry
	for _, rec := range records {
		if !rec.Managed || rec.Identity.Project != project {
			continue
		}
		entries = append(entries, newEntry(rec, live))
	}
	return project, entries, nil
}

// Overview returns every worktree under the base root, across projects,
// sorted by project then branch. It only looks at the filesystem and tmux,
// so it works outside any repository.
func (m *Manager) Overview(ctx context.Context) []Entry {
	layout := m.worktrees.Layout()
	live := m.sessions.Live(ctx)

	ids := layout.FindWorktrees()
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, newEntry(worktree.Record{
			Worktree: git.Worktree{Path: layout.Path(id), Branch: id.Branch},
			Identity: id,
			Managed:  true,
		}, live))
	}
	return entries
}
