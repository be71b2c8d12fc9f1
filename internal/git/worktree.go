package git

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
)

// Worktree is one entry of git's worktree list.
type Worktree struct {
	Path     string
	Head     string
	Branch   string // short name; empty when detached
	Detached bool
	Bare     bool
}

// ShortHead returns the first seven characters of the HEAD commit.
func (w Worktree) ShortHead() string {
	if len(w.Head) >= 7 {
		return w.Head[:7]
	}
	return w.Head
}

// AddWorktreeNewBranch creates a worktree at path on a new branch.
func (s *Service) AddWorktreeNewBranch(ctx context.Context, repoDir, path, branch string) error {
	log.Debug("git worktree add -b", "path", path, "branch", branch)
	if _, err := s.git(ctx, repoDir, "worktree", "add", "-b", branch, path); err != nil {
		return vcsError("worktree add", err)
	}
	return nil
}

// AddWorktreeExistingBranch creates a worktree at path for an existing branch.
func (s *Service) AddWorktreeExistingBranch(ctx context.Context, repoDir, path, branch string) error {
	log.Debug("git worktree add", "path", path, "branch", branch)
	if _, err := s.git(ctx, repoDir, "worktree", "add", path, branch); err != nil {
		return vcsError("worktree add", err)
	}
	return nil
}

// RemoveWorktree runs git worktree remove from repoDir.
func (s *Service) RemoveWorktree(ctx context.Context, repoDir, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if _, err := s.git(ctx, repoDir, args...); err != nil {
		return vcsError("worktree remove", err)
	}
	return nil
}

// PruneWorktrees drops git's administrative entries for worktrees whose
// directories no longer exist.
func (s *Service) PruneWorktrees(ctx context.Context, repoDir string) error {
	if _, err := s.git(ctx, repoDir, "worktree", "prune"); err != nil {
		return vcsError("worktree prune", err)
	}
	return nil
}

// ListWorktrees returns the worktrees of the repository containing dir.
// The first entry is always the main worktree.
func (s *Service) ListWorktrees(ctx context.Context, dir string) ([]Worktree, error) {
	out, err := s.git(ctx, dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, vcsError("worktree list", err)
	}
	return parseWorktreeList(out), nil
}

// parseWorktreeList parses `git worktree list --porcelain` output. Records are
// separated by blank lines; a trailing record without a blank line is kept.
func parseWorktreeList(out string) []Worktree {
	var res []Worktree
	var cur *Worktree

	flush := func() {
		if cur != nil && cur.Path != "" {
			res = append(res, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if p, ok := strings.CutPrefix(line, "worktree "); ok {
			flush()
			cur = &Worktree{Path: p}
			continue
		}
		if cur == nil {
			continue
		}
		switch {
		case strings.HasPrefix(line, "HEAD "):
			cur.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			cur.Branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "detached":
			cur.Detached = true
		case line == "bare":
			cur.Bare = true
		}
	}
	flush()
	return res
}
