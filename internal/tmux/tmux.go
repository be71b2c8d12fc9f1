// Package tmux is the multiplexer collaborator. Client wraps the tmux
// commands yati needs; it holds no state of its own and re-queries tmux on
// every call.
package tmux

import (
	"context"
	"strconv"
	"strings"

	pexec "github.com/simon/yati/internal/exec"
)

// EnvMarker is the environment variable tmux sets inside its panes.
const EnvMarker = "TMUX"

// SessionInfo is one line of list-sessions.
type SessionInfo struct {
	Name          string
	AttachedCount int
}

// Client runs tmux commands through an executor.
type Client struct {
	executor pexec.CommandExecutor
	bin      string
}

// NewClient returns a Client using the real executor and the tmux on PATH.
func NewClient() *Client {
	return NewClientWithExecutor(pexec.NewRealExecutor())
}

// NewClientWithExecutor returns a Client that runs commands through exec.
func NewClientWithExecutor(exec pexec.CommandExecutor) *Client {
	return &Client{executor: exec, bin: "tmux"}
}

// InsideSession reports whether the value of $TMUX indicates that the
// process runs inside a tmux client.
func InsideSession(marker string) bool {
	return marker != ""
}

// exact turns a session name into a target that tmux will not prefix-match.
func exact(session string) string {
	return "=" + session
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	out, err := c.executor.Output(ctx, "", c.bin, args...)
	return strings.TrimSpace(string(out)), err
}

// HasSession checks if a tmux session exists.
func (c *Client) HasSession(ctx context.Context, name string) bool {
	_, _, err := c.executor.Run(ctx, "", c.bin, "has-session", "-t", exact(name))
	return err == nil
}

// NewSession creates a detached session rooted at workDir and returns the id
// of its first window.
func (c *Client) NewSession(ctx context.Context, name, workDir string) (string, error) {
	args := []string{"new-session", "-d", "-s", name}
	if workDir != "" {
		args = append(args, "-c", workDir)
	}
	args = append(args, "-P", "-F", "#{window_id}")
	return c.run(ctx, args...)
}

// NewWindow appends a window named name to session and returns its id.
func (c *Client) NewWindow(ctx context.Context, session, name, workDir string) (string, error) {
	args := []string{"new-window", "-d", "-t", exact(session) + ":", "-n", name}
	if workDir != "" {
		args = append(args, "-c", workDir)
	}
	args = append(args, "-P", "-F", "#{window_id}")
	return c.run(ctx, args...)
}

// RenameWindow renames the window identified by target.
func (c *Client) RenameWindow(ctx context.Context, target, name string) error {
	_, err := c.run(ctx, "rename-window", "-t", target, name)
	return err
}

// SelectWindow makes target the current window of its session.
func (c *Client) SelectWindow(ctx context.Context, target string) error {
	_, err := c.run(ctx, "select-window", "-t", target)
	return err
}

// SendKeys sends text followed by Enter to target.
// Uses -l flag for literal text (no key name interpretation), then
// sends Enter separately to submit.
func (c *Client) SendKeys(ctx context.Context, target, text string) error {
	if _, err := c.run(ctx, "send-keys", "-t", target, "-l", text); err != nil {
		return err
	}
	_, err := c.run(ctx, "send-keys", "-t", target, "Enter")
	return err
}

// SwitchClient moves the current client to session.
func (c *Client) SwitchClient(ctx context.Context, session string) error {
	_, err := c.run(ctx, "switch-client", "-t", exact(session))
	return err
}

// SwitchToLastSession moves the current client to the previously focused
// session and reports whether there was one.
func (c *Client) SwitchToLastSession(ctx context.Context) bool {
	_, err := c.run(ctx, "switch-client", "-l")
	return err == nil
}

// CurrentSession returns the name of the session the current client is
// attached to.
func (c *Client) CurrentSession(ctx context.Context) (string, error) {
	return c.run(ctx, "display-message", "-p", "#{client_session}")
}

// DetachClient detaches the current client.
func (c *Client) DetachClient(ctx context.Context) error {
	_, err := c.run(ctx, "detach-client")
	return err
}

// Attach runs tmux attach as a child process and returns when the user
// detaches. TMUX is removed from the child's environment so that attaching
// works from within another tmux client too.
func (c *Client) Attach(ctx context.Context, session string) error {
	return c.executor.Interactive(ctx, "", []string{EnvMarker + "="}, c.bin, "attach-session", "-t", exact(session))
}

// KillSession destroys session.
func (c *Client) KillSession(ctx context.Context, session string) error {
	_, err := c.run(ctx, "kill-session", "-t", exact(session))
	return err
}

// ListSessions returns all tmux sessions. A missing server is not an error.
func (c *Client) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	out, err := c.run(ctx, "list-sessions", "-F", "#{session_name}|#{session_attached}")
	if err != nil {
		// "no server running" and "no sessions" mean an empty list.
		return nil, nil
	}
	return parseSessionList(out), nil
}

// parseSessionList parses "name|attached" lines. A session name may itself
// contain '|', so the count is taken from the last field.
func parseSessionList(output string) []SessionInfo {
	var sessions []SessionInfo
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		i := strings.LastIndex(line, "|")
		if i <= 0 {
			continue
		}
		attached, err := strconv.Atoi(line[i+1:])
		if err != nil {
			continue
		}
		sessions = append(sessions, SessionInfo{Name: line[:i], AttachedCount: attached})
	}
	return sessions
}
