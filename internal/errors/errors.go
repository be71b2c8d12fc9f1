// Package errors provides the structured error types used across yati.
// Every fatal condition a lifecycle operation can hit is classified by Kind so
// callers can tell, for example, a dirty worktree from a failed git command.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.Function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotARepo
	KindNotInWorkspace
	KindNoProject
	KindInvalidBranchName
	KindAlreadyExists
	KindNoSuchWorktree
	KindDirtyWorktree
	KindNotInSession
	KindVCS
	KindSession
	KindIO
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindNotARepo:
		return "not a repository"
	case KindNotInWorkspace:
		return "not in a yati worktree"
	case KindNoProject:
		return "no project"
	case KindInvalidBranchName:
		return "invalid branch name"
	case KindAlreadyExists:
		return "already exists"
	case KindNoSuchWorktree:
		return "no such worktree"
	case KindDirtyWorktree:
		return "dirty worktree"
	case KindNotInSession:
		return "not in a tmux session"
	case KindVCS:
		return "git error"
	case KindSession:
		return "tmux error"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for yati.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message. The Op is left out: messages are shown to
// the user verbatim and the operation is already implied by the command.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s", e.Context, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
//   - Op: the operation name
//   - Kind: the error kind
//   - string: context message
//   - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err, or any error it wraps, is of the given Kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// GetKind returns the Kind of the outermost classified error in err's chain.
func GetKind(err error) Kind {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return KindUnknown
		}
		if e.Kind != KindUnknown {
			return e.Kind
		}
		err = e.Err
	}
	return KindUnknown
}

func NotARepo(diag string) error {
	return E(Op("git.RepoRoot"), KindNotARepo, "not in a git repository", errors.New(diag))
}

func NotInWorkspace(dir, root string) error {
	return E(Op("workspace.FromDir"), KindNotInWorkspace,
		fmt.Sprintf("not in a yati worktree (%s is not under %s)", dir, root))
}

func NoProject(target string) error {
	return E(Op("workspace.Resolve"), KindNoProject,
		fmt.Sprintf("cannot determine project for %q; use <project>/<branch> outside a repository", target))
}

func InvalidBranchName(name string) error {
	return E(Op("git.ValidateBranchName"), KindInvalidBranchName, fmt.Sprintf("invalid branch name: %s", name))
}

func AlreadyExists(path string) error {
	return E(Op("worktree.Create"), KindAlreadyExists, fmt.Sprintf("worktree path already exists: %s", path))
}

func NoSuchWorktree(target string) error {
	return E(Op("lifecycle.Activate"), KindNoSuchWorktree, fmt.Sprintf("no yati worktree found for '%s'", target))
}

func DirtyWorktree(path string) error {
	return E(Op("worktree.Remove"), KindDirtyWorktree,
		fmt.Sprintf("worktree %s has uncommitted changes or untracked files; use 'yati teardown --force' to remove it anyway", path))
}

func NotInSession() error {
	return E(Op("lifecycle.Deactivate"), KindNotInSession, "not inside a tmux session")
}

func VCSFailed(op Op, context string, err error) error {
	return E(op, KindVCS, context, err)
}

func SessionFailed(op Op, context string, err error) error {
	return E(op, KindSession, context, err)
}

func IOFailed(op Op, context string, err error) error {
	return E(op, KindIO, context, err)
}

func ConfigInvalid(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load %s", path), err)
}
