package tmux

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

const (
	defaultPaneWidth  = 80
	defaultPaneHeight = 24
)

// Session is one tmux session with its windows, as reported by a single
// listing.
type Session struct {
	Name     string
	Attached int
	Created  time.Time
	Activity time.Time
	Windows  []Window
}

type Window struct {
	Session  string
	Index    int
	Name     string
	Active   bool
	Activity time.Time
	Panes    []Pane
}

type Pane struct {
	ID      string
	Session string
	Window  int
	Index   int
	Target  string
	Width   int
	Height  int
	Active  bool
	Command string
	Title   string
}

// ActiveWindow returns the session's active window, or its first window.
func (s Session) ActiveWindow() (Window, bool) {
	for _, w := range s.Windows {
		if w.Active {
			return w, true
		}
	}
	if len(s.Windows) > 0 {
		return s.Windows[0], true
	}
	return Window{}, false
}

// ActivePane returns the window's active pane, or its first pane.
func (w Window) ActivePane() (Pane, bool) {
	for _, p := range w.Panes {
		if p.Active {
			return p, true
		}
	}
	if len(w.Panes) > 0 {
		return w.Panes[0], true
	}
	return Pane{}, false
}

func (w Window) Target() string {
	return WindowTarget(w.Session, w.Index)
}

// WindowTarget formats session:window.
func WindowTarget(session string, window int) string {
	return fmt.Sprintf("%s:%d", session, window)
}

// PaneTarget formats session:window.pane.
func PaneTarget(session string, window, pane int) string {
	return fmt.Sprintf("%s:%d.%d", session, window, pane)
}

// exactSession prefixes a session name so tmux refuses prefix matches.
func exactSession(name string) string {
	return "=" + name
}

var (
	newTmux = func(socketPath string) (tmuxClient, error) {
		if socketPath != "" {
			return gotmux.NewTmux(socketPath)
		}
		return gotmux.DefaultTmux()
	}

	runExecCommand = func(ctx context.Context, name string, args ...string) commander {
		return &realCommander{cmd: exec.CommandContext(ctx, name, args...)}
	}
)

// tmuxClient is the subset of the control-mode client used for reads.
type tmuxClient interface {
	ListSessionsFormat(format string) ([]string, error)
	ListPanesFormat(target, filter, format string) ([]string, error)
	ListClients() ([]*gotmux.Client, error)
	Command(parts ...string) (string, error)
	Close() error
}

type commander interface {
	// Run executes the command and returns its stdout and stderr.
	Run() (stdout string, stderr string, err error)
}

type realCommander struct {
	cmd *exec.Cmd
}

func (r *realCommander) Run() (string, string, error) {
	var stdout, stderr bytes.Buffer
	r.cmd.Stdout = &stdout
	r.cmd.Stderr = &stderr
	err := r.cmd.Run()
	return stdout.String(), stderr.String(), err
}
