// Package git is the version-control collaborator: every git invocation yati
// makes goes through Service, and all parsing of git's textual output lives
// here.
package git

import (
	"context"
	"strings"

	yerrors "github.com/simon/yati/internal/errors"
	pexec "github.com/simon/yati/internal/exec"
)

// Service provides git operations with explicit dependency injection.
// Each Service holds its own executor so tests can substitute a mock.
type Service struct {
	executor pexec.CommandExecutor
}

// NewService creates a new Service with the real executor.
func NewService() *Service {
	return &Service{executor: pexec.NewRealExecutor()}
}

// NewServiceWithExecutor creates a new Service with a custom executor.
func NewServiceWithExecutor(exec pexec.CommandExecutor) *Service {
	return &Service{executor: exec}
}

// git runs a git subcommand in dir and returns its trimmed stdout.
func (s *Service) git(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := s.executor.Output(ctx, dir, "git", args...)
	return strings.TrimSpace(string(out)), err
}

func vcsError(op string, err error) error {
	return yerrors.VCSFailed(yerrors.Op("git."+op), "git "+op+" failed", err)
}
