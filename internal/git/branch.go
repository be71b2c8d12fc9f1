package git

import (
	"context"
	"strings"

	yerrors "github.com/simon/yati/internal/errors"
)

// ValidateBranchName checks name with git check-ref-format.
func (s *Service) ValidateBranchName(ctx context.Context, name string) error {
	if name == "" || strings.HasPrefix(name, "-") {
		return yerrors.InvalidBranchName(name)
	}
	if _, err := s.git(ctx, "", "check-ref-format", "--branch", name); err != nil {
		return yerrors.InvalidBranchName(name)
	}
	return nil
}

// BranchExists reports whether refs/heads/<branch> exists in the repository at dir.
func (s *Service) BranchExists(ctx context.Context, dir, branch string) bool {
	_, _, err := s.executor.Run(ctx, dir, "git", "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// LocalBranches lists local branch names of the repository at dir.
func (s *Service) LocalBranches(ctx context.Context, dir string) ([]string, error) {
	out, err := s.git(ctx, dir, "for-each-ref", "refs/heads/", "--format=%(refname:short)")
	if err != nil {
		return nil, vcsError("for-each-ref", err)
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}
