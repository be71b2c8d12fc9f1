package git

import (
	"context"
	"strings"
)

// IsDirty reports whether the worktree at path has modified or staged tracked
// files. Untracked files are not considered here.
func (s *Service) IsDirty(ctx context.Context, path string) (bool, error) {
	out, err := s.git(ctx, path, "status", "--porcelain")
	if err != nil {
		return false, vcsError("status", err)
	}
	return hasTrackedChanges(out), nil
}

// HasUntrackedFiles reports whether the worktree at path has untracked files
// that are not ignored.
func (s *Service) HasUntrackedFiles(ctx context.Context, path string) (bool, error) {
	out, err := s.git(ctx, path, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return false, vcsError("ls-files", err)
	}
	return out != "", nil
}

// CleanIgnored deletes ignored files (build artifacts, .env copies, ...) from
// the worktree at path.
func (s *Service) CleanIgnored(ctx context.Context, path string) error {
	if _, err := s.git(ctx, path, "clean", "-fdX"); err != nil {
		return vcsError("clean", err)
	}
	return nil
}

func hasTrackedChanges(porcelain string) bool {
	for _, line := range strings.Split(porcelain, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, "??") && !strings.HasPrefix(line, "!!") {
			return true
		}
	}
	return false
}
