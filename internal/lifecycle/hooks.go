package lifecycle

import (
	"context"

	pexec "github.com/simon/yati/internal/exec"
)

// HookRunner runs one configured shell command in dir.
type HookRunner interface {
	Run(ctx context.Context, dir, command string) error
}

// ShellHooks runs hooks with sh -c, connected to the terminal so their
// output reaches the user.
type ShellHooks struct {
	executor pexec.CommandExecutor
}

func NewShellHooks(executor pexec.CommandExecutor) *ShellHooks {
	return &ShellHooks{executor: executor}
}

func (h *ShellHooks) Run(ctx context.Context, dir, command string) error {
	return h.executor.Interactive(ctx, dir, nil, "sh", "-c", command)
}

// runHooks runs every hook of stage in dir. Failures are reported as
// warnings and never stop the operation.
func (m *Manager) runHooks(ctx context.Context, stage string, hooks []string, dir string) {
	for _, hook := range hooks {
		m.report.Info("Running %s hook: %s", stage, hook)
		if err := m.hooks.Run(ctx, dir, hook); err != nil {
			m.report.Warn("%s hook failed: %s (%v)", stage, hook, err)
		}
	}
}
