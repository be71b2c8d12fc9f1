package git

import (
	"context"
	"errors"
	"reflect"
	"testing"

	yerrors "github.com/simon/yati/internal/errors"
	pexec "github.com/simon/yati/internal/exec"
)

func TestParseWorktreeList(t *testing.T) {
	out := `worktree /src/demo
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree /home/u/.yati/demo/feat/x
HEAD 2222222222222222222222222222222222222222
branch refs/heads/feat/x

worktree /home/u/.yati/demo/detached
HEAD 3333333333333333333333333333333333333333
detached
`
	got := parseWorktreeList(out)
	want := []Worktree{
		{Path: "/src/demo", Head: "1111111111111111111111111111111111111111", Branch: "main"},
		{Path: "/home/u/.yati/demo/feat/x", Head: "2222222222222222222222222222222222222222", Branch: "feat/x"},
		{Path: "/home/u/.yati/demo/detached", Head: "3333333333333333333333333333333333333333", Detached: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseWorktreeList() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestParseWorktreeList_NoTrailingBlankLine(t *testing.T) {
	got := parseWorktreeList("worktree /a\nHEAD abc\nbranch refs/heads/main")
	if len(got) != 1 || got[0].Branch != "main" || got[0].Head != "abc" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestParseWorktreeList_Bare(t *testing.T) {
	got := parseWorktreeList("worktree /repo.git\nbare\n\nworktree /w\nHEAD abc\nbranch refs/heads/x\n")
	if len(got) != 2 || !got[0].Bare || got[1].Branch != "x" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestShortHead(t *testing.T) {
	if (Worktree{Head: "0123456789"}).ShortHead() != "0123456" {
		t.Error("expected 7-character short head")
	}
	if (Worktree{Head: "abc"}).ShortHead() != "abc" {
		t.Error("expected short head to be returned unchanged")
	}
}

func TestHasTrackedChanges(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"clean", "", false},
		{"untracked only", "?? new.txt\n?? other/", false},
		{"modified", " M main.go", true},
		{"staged", "A  added.go\n?? x", true},
		{"renamed", "R  a -> b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasTrackedChanges(tt.input); got != tt.want {
				t.Errorf("hasTrackedChanges(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRepoRoot_NotARepo(t *testing.T) {
	mock := pexec.NewMockExecutor()
	mock.AddPrefixMatch("git", []string{"rev-parse", "--show-toplevel"}, pexec.MockResponse{
		Stderr: []byte("fatal: not a git repository (or any of the parent directories): .git\n"),
		Err:    errors.New("exit status 128"),
	})
	svc := NewServiceWithExecutor(mock)

	_, err := svc.RepoRoot(context.Background(), "/tmp")
	if !yerrors.Is(err, yerrors.KindNotARepo) {
		t.Fatalf("expected KindNotARepo, got %v", err)
	}
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		name      string
		toplevel  string
		commonDir string
		commonErr error
		want      string
	}{
		{"main checkout", "/src/demo", "/src/demo/.git", nil, "demo"},
		{"linked worktree", "/home/u/.yati/demo/feat", "/src/demo/.git", nil, "demo"},
		{"old git", "/src/demo", "", errors.New("unknown option"), "demo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := pexec.NewMockExecutor()
			mock.AddPrefixMatch("git", []string{"rev-parse", "--show-toplevel"}, pexec.MockResponse{Stdout: []byte(tt.toplevel + "\n")})
			mock.AddPrefixMatch("git", []string{"rev-parse", "--path-format=absolute"}, pexec.MockResponse{
				Stdout: []byte(tt.commonDir + "\n"),
				Err:    tt.commonErr,
			})
			got, err := NewServiceWithExecutor(mock).ProjectName(context.Background(), "/anywhere")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ProjectName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateBranchName(t *testing.T) {
	mock := pexec.NewMockExecutor()
	mock.AddExactMatch("git", []string{"check-ref-format", "--branch", "bad..name"}, pexec.MockResponse{Err: errors.New("exit status 1")})
	svc := NewServiceWithExecutor(mock)
	ctx := context.Background()

	if err := svc.ValidateBranchName(ctx, "feat/x"); err != nil {
		t.Errorf("expected feat/x to be valid, got %v", err)
	}
	for _, name := range []string{"bad..name", "", "-x"} {
		if err := svc.ValidateBranchName(ctx, name); !yerrors.Is(err, yerrors.KindInvalidBranchName) {
			t.Errorf("expected %q to be invalid, got %v", name, err)
		}
	}
}

func TestRemoveWorktreeArgs(t *testing.T) {
	mock := pexec.NewMockExecutor()
	svc := NewServiceWithExecutor(mock)

	if err := svc.RemoveWorktree(context.Background(), "/src/demo", "/w", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := mock.GetCalls()
	if len(calls) != 1 || calls[0].String() != "git worktree remove --force /w" || calls[0].Dir != "/src/demo" {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestAddWorktreeFailureIsVCSError(t *testing.T) {
	mock := pexec.NewMockExecutor()
	mock.AddPrefixMatch("git", []string{"worktree", "add"}, pexec.MockResponse{
		Stderr: []byte("fatal: invalid reference: nope"),
		Err:    errors.New("exit status 128"),
	})
	err := NewServiceWithExecutor(mock).AddWorktreeExistingBranch(context.Background(), "/src", "/w", "nope")
	if !yerrors.Is(err, yerrors.KindVCS) {
		t.Fatalf("expected KindVCS, got %v", err)
	}
	if pexec.Diagnostic(err) != "fatal: invalid reference: nope" {
		t.Errorf("expected git's diagnostic to survive, got %q", pexec.Diagnostic(err))
	}
}

func TestLocalBranches(t *testing.T) {
	mock := pexec.NewMockExecutor()
	mock.AddPrefixMatch("git", []string{"for-each-ref"}, pexec.MockResponse{Stdout: []byte("main\nfeat/x\n\n")})
	got, err := NewServiceWithExecutor(mock).LocalBranches(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"main", "feat/x"}) {
		t.Errorf("LocalBranches() = %v", got)
	}
}

func TestUntrackedAndDirty(t *testing.T) {
	mock := pexec.NewMockExecutor()
	mock.AddPrefixMatch("git", []string{"status"}, pexec.MockResponse{Stdout: []byte("?? scratch.txt\n")})
	mock.AddPrefixMatch("git", []string{"ls-files"}, pexec.MockResponse{Stdout: []byte("scratch.txt\n")})
	svc := NewServiceWithExecutor(mock)
	ctx := context.Background()

	dirty, err := svc.IsDirty(ctx, "/w")
	if err != nil || dirty {
		t.Errorf("IsDirty() = %v, %v; want false, nil", dirty, err)
	}
	untracked, err := svc.HasUntrackedFiles(ctx, "/w")
	if err != nil || !untracked {
		t.Errorf("HasUntrackedFiles() = %v, %v; want true, nil", untracked, err)
	}
}
