// Package session is the session controller. It maps a worktree identity to
// a named tmux session and applies the configured window layout when the
// session is created.
package session

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	yerrors "github.com/simon/yati/internal/errors"
	"github.com/simon/yati/internal/tmux"
	"github.com/simon/yati/internal/workspace"
)

// Multiplexer is the set of tmux operations the controller drives.
// *tmux.Client satisfies it.
type Multiplexer interface {
	HasSession(ctx context.Context, name string) bool
	NewSession(ctx context.Context, name, workDir string) (string, error)
	NewWindow(ctx context.Context, session, name, workDir string) (string, error)
	RenameWindow(ctx context.Context, target, name string) error
	SelectWindow(ctx context.Context, target string) error
	SendKeys(ctx context.Context, target, text string) error
	SwitchClient(ctx context.Context, session string) error
	SwitchToLastSession(ctx context.Context) bool
	CurrentSession(ctx context.Context) (string, error)
	DetachClient(ctx context.Context) error
	Attach(ctx context.Context, session string) error
	KillSession(ctx context.Context, session string) error
	ListSessions(ctx context.Context) ([]tmux.SessionInfo, error)
}

// Window is one entry of a session layout.
type Window struct {
	Name    string
	Command string
}

// Session is a live tmux session.
type Session struct {
	Name          string
	AttachedCount int
}

// Attached reports whether any client is showing the session.
func (s Session) Attached() bool {
	return s.AttachedCount > 0
}

// tmux refuses '.' and ':' in session names.
var nameReplacer = strings.NewReplacer(".", "_", ":", "_")

// Name returns the session name for id, "<project>/<branch>".
func Name(id workspace.Identity) string {
	return nameReplacer.Replace(id.String())
}

// Controller owns the identity to session mapping.
type Controller struct {
	mux    Multiplexer
	inside bool
}

// New returns a Controller. inside tells whether the process runs in a tmux
// client; it is decided once by the caller.
func New(mux Multiplexer, inside bool) *Controller {
	return &Controller{mux: mux, inside: inside}
}

// Inside reports whether the process runs inside tmux.
func (c *Controller) Inside() bool {
	return c.inside
}

// Exists reports whether a session named name exists. Query errors count as
// "does not exist".
func (c *Controller) Exists(ctx context.Context, name string) bool {
	return c.mux.HasSession(ctx, name)
}

// CreateWithWindows creates a detached session rooted at dir and lays out
// windows. The first window reuses the session's initial window. A failure
// on one window does not stop the others; such failures are returned as
// warnings. Only failing to create the session itself is an error.
func (c *Controller) CreateWithWindows(ctx context.Context, name, dir string, windows []Window) (warnings []error, err error) {
	first, err := c.mux.NewSession(ctx, name, dir)
	if err != nil {
		return nil, yerrors.SessionFailed("session.CreateWithWindows", fmt.Sprintf("failed to create session %s", name), err)
	}
	log.Debug("created session", "session", name, "window", first)
	if len(windows) == 0 {
		return nil, nil
	}

	warn := func(w Window, err error) {
		warnings = append(warnings, fmt.Errorf("window %q: %w", w.Name, err))
	}

	if err := c.mux.RenameWindow(ctx, first, windows[0].Name); err != nil {
		warn(windows[0], err)
	}
	if windows[0].Command != "" {
		if err := c.mux.SendKeys(ctx, first, windows[0].Command); err != nil {
			warn(windows[0], err)
		}
	}

	for _, w := range windows[1:] {
		id, err := c.mux.NewWindow(ctx, name, w.Name, dir)
		if err != nil {
			warn(w, err)
			continue
		}
		if w.Command == "" {
			continue
		}
		if err := c.mux.SendKeys(ctx, id, w.Command); err != nil {
			warn(w, err)
		}
	}

	if err := c.mux.SelectWindow(ctx, first); err != nil {
		warn(windows[0], err)
	}
	return warnings, nil
}

// AttachOrSwitch focuses the session. Inside tmux the current client is
// switched; otherwise a client is attached and the call blocks until the
// user detaches.
func (c *Controller) AttachOrSwitch(ctx context.Context, name string) error {
	if c.inside {
		if err := c.mux.SwitchClient(ctx, name); err != nil {
			return yerrors.SessionFailed("session.AttachOrSwitch", fmt.Sprintf("failed to switch to %s", name), err)
		}
		return nil
	}
	if err := c.mux.Attach(ctx, name); err != nil {
		return yerrors.SessionFailed("session.AttachOrSwitch", fmt.Sprintf("failed to attach to %s", name), err)
	}
	return nil
}

// Current returns the session the client is attached to, or "" outside tmux
// or when tmux cannot tell.
func (c *Controller) Current(ctx context.Context) string {
	if !c.inside {
		return ""
	}
	name, err := c.mux.CurrentSession(ctx)
	if err != nil {
		log.Debug("cannot determine current session", "err", err)
		return ""
	}
	return name
}

// SwitchToPrevious moves the client to the previously focused session and
// reports whether there was one.
func (c *Controller) SwitchToPrevious(ctx context.Context) bool {
	return c.mux.SwitchToLastSession(ctx)
}

// SwitchToPreviousOrDetach moves the client away from its current session,
// detaching it when tmux has no previous session to go to. It reports
// whether the client was switched.
func (c *Controller) SwitchToPreviousOrDetach(ctx context.Context) (bool, error) {
	if c.SwitchToPrevious(ctx) {
		return true, nil
	}
	log.Debug("no previous session, detaching client")
	if err := c.mux.DetachClient(ctx); err != nil {
		return false, yerrors.SessionFailed("session.SwitchToPreviousOrDetach", "failed to detach client", err)
	}
	return false, nil
}

// Kill destroys the session.
func (c *Controller) Kill(ctx context.Context, name string) error {
	if err := c.mux.KillSession(ctx, name); err != nil {
		return yerrors.SessionFailed("session.Kill", fmt.Sprintf("failed to kill session %s", name), err)
	}
	return nil
}

// List returns all tmux sessions sorted by name.
func (c *Controller) List(ctx context.Context) ([]Session, error) {
	infos, err := c.mux.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	sessions := make([]Session, 0, len(infos))
	for _, info := range infos {
		sessions = append(sessions, Session{
			Name:          info.Name,
			AttachedCount: info.AttachedCount,
		})
	}
	SortSessions(sessions)
	return sessions, nil
}

// Live returns the existing sessions keyed by name. A tmux failure yields an
// empty map.
func (c *Controller) Live(ctx context.Context) map[string]Session {
	sessions, _ := c.List(ctx)
	live := make(map[string]Session, len(sessions))
	for _, s := range sessions {
		live[s.Name] = s
	}
	return live
}

// SortSessions sorts by name.
func SortSessions(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Name < sessions[j].Name
	})
}

var _ Multiplexer = (*tmux.Client)(nil)
