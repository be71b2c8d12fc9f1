package lifecycle

import (
	"fmt"
	"os"

	"github.com/simon/yati/internal/tmux"
	"github.com/simon/yati/internal/workspace"
)

// RootEnvVar overrides the base root (default ~/.yati).
const RootEnvVar = "YATI_HOME"

// Env is the process environment an operation runs in. It is read once at
// startup and passed in so nothing below cmd/ looks at os.Getenv or os.Getwd.
type Env struct {
	Home       string
	Root       string
	Dir        string
	TmuxMarker string
}

// LoadEnv reads the environment of the current process.
func LoadEnv() (Env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Env{}, fmt.Errorf("could not determine home directory: %w", err)
	}
	dir, err := os.Getwd()
	if err != nil {
		// The directory may have been removed underneath the shell; PWD still
		// names it, which is enough to resolve an identity.
		dir = os.Getenv("PWD")
		if dir == "" {
			return Env{}, fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	root := os.Getenv(RootEnvVar)
	if root == "" {
		root = workspace.DefaultRoot(home)
	}
	return Env{
		Home:       home,
		Root:       root,
		Dir:        dir,
		TmuxMarker: os.Getenv(tmux.EnvMarker),
	}, nil
}

// Inside reports whether the process runs inside tmux.
func (e Env) Inside() bool {
	return tmux.InsideSession(e.TmuxMarker)
}

// Layout returns the worktree layout rooted at e.Root.
func (e Env) Layout() workspace.Layout {
	return workspace.NewLayout(e.Root)
}
