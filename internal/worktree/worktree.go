// Package worktree is the worktree store: it creates, lists and removes the
// git worktrees that live under the yati layout, delegating the git side to a
// VCS collaborator and keeping the directory tree tidy afterwards.
package worktree

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	yerrors "github.com/simon/yati/internal/errors"
	"github.com/simon/yati/internal/git"
	"github.com/simon/yati/internal/workspace"
)

// VCS is the subset of git operations the store needs.
type VCS interface {
	AddWorktreeNewBranch(ctx context.Context, repoDir, path, branch string) error
	AddWorktreeExistingBranch(ctx context.Context, repoDir, path, branch string) error
	BranchExists(ctx context.Context, dir, branch string) bool
	ListWorktrees(ctx context.Context, dir string) ([]git.Worktree, error)
	IsDirty(ctx context.Context, path string) (bool, error)
	HasUntrackedFiles(ctx context.Context, path string) (bool, error)
	CleanIgnored(ctx context.Context, path string) error
	RemoveWorktree(ctx context.Context, repoDir, path string, force bool) error
	PruneWorktrees(ctx context.Context, repoDir string) error
}

// Record is one worktree of a repository. Managed records live under the
// yati layout and carry their Identity.
type Record struct {
	git.Worktree
	Identity workspace.Identity
	Managed  bool
}

// Store manages worktrees under a layout.
type Store struct {
	vcs    VCS
	layout workspace.Layout
}

func New(vcs VCS, layout workspace.Layout) *Store {
	return &Store{vcs: vcs, layout: layout}
}

// Layout returns the layout the store manages.
func (s *Store) Layout() workspace.Layout {
	return s.layout
}

// Create adds a worktree for id from the repository at repoDir and returns
// its path. A new branch is created unless the branch already exists, in
// which case the existing branch is checked out instead.
func (s *Store) Create(ctx context.Context, repoDir string, id workspace.Identity) (string, error) {
	path := s.layout.Path(id)
	if _, err := os.Lstat(path); err == nil {
		return "", yerrors.AlreadyExists(path)
	}

	err := s.vcs.AddWorktreeNewBranch(ctx, repoDir, path, id.Branch)
	if err == nil {
		return path, nil
	}
	if !s.vcs.BranchExists(ctx, repoDir, id.Branch) {
		return "", err
	}
	log.Debug("branch exists, adding worktree for existing branch", "branch", id.Branch)
	if err := s.vcs.AddWorktreeExistingBranch(ctx, repoDir, path, id.Branch); err != nil {
		return "", err
	}
	return path, nil
}

// List returns every worktree of the repository containing dir, main
// worktree first.
func (s *Store) List(ctx context.Context, dir string) ([]Record, error) {
	wts, err := s.vcs.ListWorktrees(ctx, dir)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(wts))
	for _, wt := range wts {
		rec := Record{Worktree: wt}
		if id, err := s.layout.FromDir(wt.Path); err == nil {
			rec.Identity = id
			rec.Managed = true
		}
		records = append(records, rec)
	}
	return records, nil
}

// Primary returns the main worktree of the repository containing dir. The
// project config lives there.
func (s *Store) Primary(ctx context.Context, dir string) (Record, error) {
	records, err := s.List(ctx, dir)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, yerrors.VCSFailed("worktree.Primary", "no worktrees found", errors.New("git worktree list returned nothing"))
	}
	return records[0], nil
}

// Remove deletes the worktree of id. repoDir must be a checkout of the same
// repository other than the worktree being removed.
//
// Without force a worktree with tracked changes or untracked, non-ignored
// files is refused. Ignored files are cleaned first so build artifacts do not
// block git. If git still refuses, the directory is deleted directly and the
// stale worktree entry pruned.
func (s *Store) Remove(ctx context.Context, repoDir string, id workspace.Identity, force bool) error {
	path := s.layout.Path(id)

	if !force {
		dirty, err := s.vcs.IsDirty(ctx, path)
		if err != nil {
			return err
		}
		untracked, err := s.vcs.HasUntrackedFiles(ctx, path)
		if err != nil {
			return err
		}
		if dirty || untracked {
			return yerrors.DirtyWorktree(path)
		}
	}

	if err := s.vcs.CleanIgnored(ctx, path); err != nil {
		return err
	}

	// Dirtiness has been checked above, so git is always told to force.
	if err := s.vcs.RemoveWorktree(ctx, repoDir, path, true); err != nil {
		// Only a real worktree may be deleted by hand: a namespace directory
		// such as <root>/demo/feat can hold sibling worktrees.
		if !workspace.IsWorktreeLeaf(path) && !s.registered(ctx, repoDir, path) {
			return err
		}
		log.Warn("git worktree remove failed, deleting directory", "path", path, "err", err)
		if err := os.RemoveAll(path); err != nil {
			return yerrors.IOFailed("worktree.Remove", "failed to remove "+path, err)
		}
		return s.vcs.PruneWorktrees(ctx, repoDir)
	}
	return nil
}

// registered reports whether git lists path as a worktree of repoDir.
func (s *Store) registered(ctx context.Context, repoDir, path string) bool {
	wts, err := s.vcs.ListWorktrees(ctx, repoDir)
	if err != nil {
		return false
	}
	for _, wt := range wts {
		if samePath(wt.Path, path) {
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, err1 := filepath.EvalSymlinks(a)
	rb, err2 := filepath.EvalSymlinks(b)
	return err1 == nil && err2 == nil && ra == rb
}

// PruneEmpty removes directories left empty by removing id, up to and
// including the layout root.
func (s *Store) PruneEmpty(id workspace.Identity) []string {
	removed := s.layout.PruneEmpty(id)
	for _, dir := range removed {
		log.Debug("removed empty directory", "dir", dir)
	}
	return removed
}
