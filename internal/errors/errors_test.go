package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUnknown, "unknown error"},
		{KindNotARepo, "not a repository"},
		{KindNotInWorkspace, "not in a yati worktree"},
		{KindNoProject, "no project"},
		{KindInvalidBranchName, "invalid branch name"},
		{KindAlreadyExists, "already exists"},
		{KindNoSuchWorktree, "no such worktree"},
		{KindDirtyWorktree, "dirty worktree"},
		{KindNotInSession, "not in a tmux session"},
		{KindVCS, "git error"},
		{KindSession, "tmux error"},
		{KindIO, "I/O error"},
		{KindConfig, "configuration error"},
		{Kind(999), "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("Kind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with context",
			err:      &Error{Op: "test.Op", Context: "some context", Err: errors.New("underlying error")},
			expected: "some context: underlying error",
		},
		{
			name:     "without context",
			err:      &Error{Op: "test.Op", Err: errors.New("underlying error")},
			expected: "underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestE_ContextOnly(t *testing.T) {
	err := E(Op("x.Y"), KindConfig, "bad window")
	if err.Error() != "bad window" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !Is(err, KindConfig) {
		t.Error("expected KindConfig")
	}
}

func TestIs_ThroughWrapping(t *testing.T) {
	base := DirtyWorktree("/w")
	wrapped := fmt.Errorf("teardown: %w", base)

	if !Is(wrapped, KindDirtyWorktree) {
		t.Error("expected wrapped error to keep its kind")
	}
	if Is(wrapped, KindVCS) {
		t.Error("did not expect KindVCS")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Error("plain errors should be KindUnknown")
	}
	if GetKind(nil) != KindUnknown {
		t.Error("nil should be KindUnknown")
	}
}

func TestGetKind_OutermostClassifiedWins(t *testing.T) {
	inner := E(KindVCS, "git worktree add failed", errors.New("fatal"))
	outer := E(Op("lifecycle.Create"), inner)

	if GetKind(outer) != KindVCS {
		t.Errorf("GetKind() = %v, want KindVCS", GetKind(outer))
	}
}

func TestConstructorsCarryDiagnostics(t *testing.T) {
	err := NotARepo("fatal: not a git repository (or any of the parent directories): .git")
	if !strings.Contains(err.Error(), "fatal: not a git repository") {
		t.Errorf("expected underlying diagnostic in %q", err.Error())
	}
	if !Is(err, KindNotARepo) {
		t.Error("expected KindNotARepo")
	}
	if !strings.Contains(NoSuchWorktree("feat").Error(), "'feat'") {
		t.Error("expected target in NoSuchWorktree message")
	}
}
