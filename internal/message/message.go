// Package message defines the data exchanged between the coordinator, the
// backend executor, the refresh scheduler and the key input source. Every
// value is plain data: nothing here carries a callback or a backend handle.
package message

import (
	"time"

	"github.com/atomicstack/tmux-deck/internal/tmux"
	tea "github.com/charmbracelet/bubbletea"
)

// Command is a request for the backend executor.
type Command interface {
	command()
	// Kind names the command in traces.
	Kind() string
	// Mutating reports whether the command changes tmux state.
	Mutating() bool
}

// RefreshAll enumerates every session, window and pane.
type RefreshAll struct{}

// CapturePane reads the visible contents of one pane.
type CapturePane struct {
	Target string
}

// NewSession creates a detached session.
type NewSession struct {
	Name string
}

// RenameSession renames OldName to NewName.
type RenameSession struct {
	OldName string
	NewName string
}

// KillSession destroys a session.
type KillSession struct {
	Name string
}

// SendKeys types Keys literally into Target. Submit appends Enter.
type SendKeys struct {
	Target string
	Keys   string
	Submit bool
}

// SwitchClient moves the attached client to Target.
type SwitchClient struct {
	Target string
}

// CopyPane copies the plain text of a pane to the tmux buffer and the
// system clipboard.
type CopyPane struct {
	Target string
}

func (RefreshAll) command()    {}
func (CapturePane) command()   {}
func (NewSession) command()    {}
func (RenameSession) command() {}
func (KillSession) command()   {}
func (SendKeys) command()      {}
func (SwitchClient) command()  {}
func (CopyPane) command()      {}

func (RefreshAll) Kind() string    { return "refresh-all" }
func (CapturePane) Kind() string   { return "capture-pane" }
func (NewSession) Kind() string    { return "new-session" }
func (RenameSession) Kind() string { return "rename-session" }
func (KillSession) Kind() string   { return "kill-session" }
func (SendKeys) Kind() string      { return "send-keys" }
func (SwitchClient) Kind() string  { return "switch-client" }
func (CopyPane) Kind() string      { return "copy-pane" }

func (RefreshAll) Mutating() bool    { return false }
func (CapturePane) Mutating() bool   { return false }
func (NewSession) Mutating() bool    { return true }
func (RenameSession) Mutating() bool { return true }
func (KillSession) Mutating() bool   { return true }
func (SendKeys) Mutating() bool      { return true }
func (SwitchClient) Mutating() bool  { return true }
func (CopyPane) Mutating() bool      { return false }

// Envelope wraps a command with a correlation ID for tracing.
type Envelope struct {
	ID      string
	Issued  time.Time
	Command Command
}

// Response is an outcome produced by the backend executor.
type Response interface {
	response()
}

// SessionsRefreshed carries a complete snapshot of the tmux tree.
type SessionsRefreshed struct {
	Sessions []tmux.Session
}

// PaneCaptured carries the captured contents of one pane.
type PaneCaptured struct {
	Target  string
	Content string
}

type SessionCreated struct {
	Name    string
	Success bool
	Err     string
}

type SessionRenamed struct {
	OldName string
	NewName string
	Success bool
	Err     string
}

type SessionKilled struct {
	Name    string
	Success bool
	Err     string
}

type KeysSent struct {
	Target string
}

type ClientSwitched struct {
	Target string
}

type PaneCopied struct {
	Target string
	Bytes  int
}

// Error reports a failed command in human-readable form.
type Error struct {
	Message string
}

func (SessionsRefreshed) response() {}
func (PaneCaptured) response()      {}
func (SessionCreated) response()    {}
func (SessionRenamed) response()    {}
func (SessionKilled) response()     {}
func (KeysSent) response()          {}
func (ClientSwitched) response()    {}
func (PaneCopied) response()        {}
func (Error) response()             {}

// Event is emitted by the refresh scheduler.
type Event interface {
	event()
}

type Tick struct {
	At time.Time
}

type RequestCapture struct {
	At time.Time
}

// Shutdown is sent once when the process receives an external stop signal.
type Shutdown struct {
	Reason string
}

func (Tick) event()           {}
func (RequestCapture) event() {}
func (Shutdown) event()       {}

// KeyEvent is a raw terminal input event, forwarded verbatim. Msg is a
// tea.KeyMsg for keystrokes or a tea.WindowSizeMsg for resizes.
type KeyEvent struct {
	Msg      tea.Msg
	Received time.Time
}
