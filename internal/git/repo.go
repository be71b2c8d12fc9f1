package git

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"

	yerrors "github.com/simon/yati/internal/errors"
	pexec "github.com/simon/yati/internal/exec"
)

// RepoRoot returns the top-level directory of the checkout containing dir.
func (s *Service) RepoRoot(ctx context.Context, dir string) (string, error) {
	root, err := s.git(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", yerrors.NotARepo(pexec.Diagnostic(err))
	}
	return root, nil
}

// ProjectName returns the name of the repository containing dir. For a linked
// worktree this is the name of the main checkout, not of the worktree leaf,
// so a yati worktree at ~/.yati/demo/feature still belongs to "demo".
func (s *Service) ProjectName(ctx context.Context, dir string) (string, error) {
	root, err := s.RepoRoot(ctx, dir)
	if err != nil {
		return "", err
	}
	common, err := s.git(ctx, dir, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err == nil && filepath.Base(common) == ".git" {
		return filepath.Base(filepath.Dir(common)), nil
	}
	log.Debug("git common dir unavailable, using toplevel", "root", root, "err", err)
	return filepath.Base(root), nil
}
