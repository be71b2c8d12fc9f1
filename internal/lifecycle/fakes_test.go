package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simon/yati/internal/config"
	yerrors "github.com/simon/yati/internal/errors"
	"github.com/simon/yati/internal/git"
	"github.com/simon/yati/internal/session"
	"github.com/simon/yati/internal/state"
	"github.com/simon/yati/internal/tmux"
	"github.com/simon/yati/internal/worktree"
)

// fakeRepo is a repository at main named demo.
type fakeRepo struct {
	main    string
	project string
}

func (r *fakeRepo) RepoRoot(ctx context.Context, dir string) (string, error) {
	if r.main == "" {
		return "", yerrors.NotARepo("fatal: not a git repository")
	}
	return r.main, nil
}

func (r *fakeRepo) ProjectName(ctx context.Context, dir string) (string, error) {
	if r.main == "" {
		return "", yerrors.NotARepo("fatal: not a git repository")
	}
	return r.project, nil
}

func (r *fakeRepo) ValidateBranchName(ctx context.Context, name string) error {
	if name == "" || strings.Contains(name, "..") {
		return yerrors.InvalidBranchName(name)
	}
	return nil
}

// fakeVCS materialises worktrees as directories holding a .git file.
type fakeVCS struct {
	main      string
	worktrees []git.Worktree
	branches  map[string]bool
	dirty     map[string]bool
}

func newFakeVCS(main string) *fakeVCS {
	return &fakeVCS{
		main:     main,
		branches: map[string]bool{"main": true},
		dirty:    map[string]bool{},
	}
}

func (v *fakeVCS) add(path, branch string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(path, ".git"), []byte("gitdir: "+v.main+"/.git/worktrees/x\n"), 0o644); err != nil {
		return err
	}
	v.branches[branch] = true
	v.worktrees = append(v.worktrees, git.Worktree{Path: path, Head: "0123456789abcdef", Branch: branch})
	return nil
}

func (v *fakeVCS) AddWorktreeNewBranch(ctx context.Context, repoDir, path, branch string) error {
	if v.branches[branch] {
		return fmt.Errorf("fatal: a branch named '%s' already exists", branch)
	}
	return v.add(path, branch)
}

func (v *fakeVCS) AddWorktreeExistingBranch(ctx context.Context, repoDir, path, branch string) error {
	return v.add(path, branch)
}

func (v *fakeVCS) BranchExists(ctx context.Context, dir, branch string) bool {
	return v.branches[branch]
}

func (v *fakeVCS) ListWorktrees(ctx context.Context, dir string) ([]git.Worktree, error) {
	all := []git.Worktree{{Path: v.main, Head: "fedcba9876543210", Branch: "main"}}
	return append(all, v.worktrees...), nil
}

func (v *fakeVCS) IsDirty(ctx context.Context, path string) (bool, error) {
	return v.dirty[path], nil
}

func (v *fakeVCS) HasUntrackedFiles(ctx context.Context, path string) (bool, error) {
	return false, nil
}

func (v *fakeVCS) CleanIgnored(ctx context.Context, path string) error {
	return nil
}

func (v *fakeVCS) RemoveWorktree(ctx context.Context, repoDir, path string, force bool) error {
	if repoDir == path {
		return errors.New("fatal: cannot remove the worktree git runs in")
	}
	for i, wt := range v.worktrees {
		if wt.Path == path {
			v.worktrees = append(v.worktrees[:i], v.worktrees[i+1:]...)
			return os.RemoveAll(path)
		}
	}
	return fmt.Errorf("fatal: '%s' is not a working tree", path)
}

func (v *fakeVCS) PruneWorktrees(ctx context.Context, repoDir string) error {
	return nil
}

var _ worktree.VCS = (*fakeVCS)(nil)

type fakeWindow struct {
	id      string
	name    string
	dir     string
	sent    []string
	focused bool
}

// fakeMux is an in-memory tmux server with a single client.
type fakeMux struct {
	sessions map[string][]*fakeWindow
	current  string
	previous string
	attached []string
	created  int
	nextID   int
	calls    []string
}

func newFakeMux(current string) *fakeMux {
	m := &fakeMux{sessions: map[string][]*fakeWindow{}, current: current}
	if current != "" {
		m.sessions[current] = []*fakeWindow{{id: "@0", name: "zsh"}}
	}
	return m
}

func (m *fakeMux) window(target string) *fakeWindow {
	for _, ws := range m.sessions {
		for _, w := range ws {
			if w.id == target {
				return w
			}
		}
	}
	return nil
}

func (m *fakeMux) HasSession(ctx context.Context, name string) bool {
	_, ok := m.sessions[name]
	return ok
}

func (m *fakeMux) NewSession(ctx context.Context, name, workDir string) (string, error) {
	m.calls = append(m.calls, "new-session "+name)
	if _, ok := m.sessions[name]; ok {
		return "", fmt.Errorf("duplicate session: %s", name)
	}
	m.nextID++
	w := &fakeWindow{id: fmt.Sprintf("@%d", m.nextID), name: "zsh", dir: workDir, focused: true}
	m.sessions[name] = []*fakeWindow{w}
	m.created++
	return w.id, nil
}

func (m *fakeMux) NewWindow(ctx context.Context, session, name, workDir string) (string, error) {
	m.calls = append(m.calls, "new-window "+name)
	if _, ok := m.sessions[session]; !ok {
		return "", fmt.Errorf("can't find session: %s", session)
	}
	m.nextID++
	w := &fakeWindow{id: fmt.Sprintf("@%d", m.nextID), name: name, dir: workDir}
	m.sessions[session] = append(m.sessions[session], w)
	return w.id, nil
}

func (m *fakeMux) RenameWindow(ctx context.Context, target, name string) error {
	w := m.window(target)
	if w == nil {
		return fmt.Errorf("can't find window: %s", target)
	}
	w.name = name
	return nil
}

func (m *fakeMux) SelectWindow(ctx context.Context, target string) error {
	for _, ws := range m.sessions {
		for _, w := range ws {
			if w.id == target {
				for _, other := range ws {
					other.focused = other == w
				}
				return nil
			}
		}
	}
	return fmt.Errorf("can't find window: %s", target)
}

func (m *fakeMux) SendKeys(ctx context.Context, target, text string) error {
	w := m.window(target)
	if w == nil {
		return fmt.Errorf("can't find window: %s", target)
	}
	w.sent = append(w.sent, text)
	return nil
}

func (m *fakeMux) SwitchClient(ctx context.Context, name string) error {
	m.calls = append(m.calls, "switch-client "+name)
	if _, ok := m.sessions[name]; !ok {
		return fmt.Errorf("can't find session: %s", name)
	}
	if m.current != name {
		m.previous, m.current = m.current, name
	}
	return nil
}

func (m *fakeMux) SwitchToLastSession(ctx context.Context) bool {
	m.calls = append(m.calls, "switch-client -l")
	if _, ok := m.sessions[m.previous]; !ok || m.previous == "" {
		return false
	}
	m.previous, m.current = m.current, m.previous
	return true
}

func (m *fakeMux) CurrentSession(ctx context.Context) (string, error) {
	return m.current, nil
}

func (m *fakeMux) DetachClient(ctx context.Context) error {
	m.calls = append(m.calls, "detach-client")
	m.current = ""
	return nil
}

func (m *fakeMux) Attach(ctx context.Context, name string) error {
	m.calls = append(m.calls, "attach "+name)
	if _, ok := m.sessions[name]; !ok {
		return fmt.Errorf("can't find session: %s", name)
	}
	m.attached = append(m.attached, name)
	return nil
}

func (m *fakeMux) KillSession(ctx context.Context, name string) error {
	m.calls = append(m.calls, "kill-session "+name)
	if _, ok := m.sessions[name]; !ok {
		return fmt.Errorf("can't find session: %s", name)
	}
	delete(m.sessions, name)
	if m.current == name {
		m.current = ""
	}
	return nil
}

func (m *fakeMux) ListSessions(ctx context.Context) ([]tmux.SessionInfo, error) {
	var infos []tmux.SessionInfo
	for name := range m.sessions {
		info := tmux.SessionInfo{Name: name}
		if name == m.current {
			info.AttachedCount = 1
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (m *fakeMux) mutations() []string {
	var out []string
	for _, c := range m.calls {
		if !strings.HasPrefix(c, "switch-client -l") {
			out = append(out, c)
		}
	}
	return out
}

var _ session.Multiplexer = (*fakeMux)(nil)

// fakeHooks records hooks and fails the ones listed in fail.
type fakeHooks struct {
	ran  []string
	fail map[string]bool
}

func (h *fakeHooks) Run(ctx context.Context, dir, command string) error {
	h.ran = append(h.ran, command+" @ "+dir)
	if h.fail[command] {
		return errors.New("exit status 1")
	}
	return nil
}

// captureReporter keeps every message.
type captureReporter struct {
	infos, warnings, successes []string
}

func (r *captureReporter) Info(format string, args ...interface{}) {
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

func (r *captureReporter) Warn(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *captureReporter) Success(format string, args ...interface{}) {
	r.successes = append(r.successes, fmt.Sprintf(format, args...))
}

type fakeJournal struct {
	events []string
	err    error
}

func (j *fakeJournal) Record(ctx context.Context, kind state.EventKind, session, path string) error {
	j.events = append(j.events, string(kind)+" "+session)
	return j.err
}

func staticConfig(cfg *config.Config) func(string) (*config.Config, error) {
	return func(string) (*config.Config, error) {
		c := *cfg
		return &c, nil
	}
}
