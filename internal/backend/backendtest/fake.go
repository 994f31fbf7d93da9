// Package backendtest provides an in-memory tmux stand-in for tests of the
// executor and the units around it.
package backendtest

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/tmux-deck/internal/tmux"
)

// Tmux mimics the subset of tmux behaviour the executor relies on: unique
// session names, exact-match targets, an empty server after the last kill.
// Every call is appended to Calls.
type Tmux struct {
	mu       sync.Mutex
	sessions map[string]*fakeSession
	captures map[string]string
	calls    []string
	buffer   string

	// Delay is slept inside every call, to simulate a slow tmux.
	Delay time.Duration
	// ListErr, when set, fails ListTree.
	ListErr error
	// SwitchErr, when set, fails SwitchClient.
	SwitchErr error
}

type fakeSession struct {
	name    string
	created int
	panes   int
}

// New returns a fake server holding the given sessions, each with a single
// window and pane.
func New(sessions ...string) *Tmux {
	f := &Tmux{
		sessions: make(map[string]*fakeSession),
		captures: make(map[string]string),
	}
	for i, name := range sessions {
		f.sessions[name] = &fakeSession{name: name, created: i, panes: 1}
	}
	return f
}

// SetCapture sets the content returned for a pane target.
func (f *Tmux) SetCapture(target, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captures[target] = content
}

// SetPanes gives session n panes in its only window.
func (f *Tmux) SetPanes(session string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[session]; ok {
		s.panes = n
	}
}

func (f *Tmux) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Tmux) Buffer() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buffer
}

func (f *Tmux) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.namesLocked()
}

func (f *Tmux) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
}

func (f *Tmux) namesLocked() []string {
	names := make([]string, 0, len(f.sessions))
	for name := range f.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *Tmux) ListTree() ([]tmux.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]tmux.Session, 0, len(f.sessions))
	for _, name := range f.namesLocked() {
		s := f.sessions[name]
		w := tmux.Window{Session: name, Index: 0, Name: "shell", Active: true}
		for i := 0; i < s.panes; i++ {
			w.Panes = append(w.Panes, tmux.Pane{
				ID:      fmt.Sprintf("%%%d", s.created*10+i),
				Session: name,
				Window:  0,
				Index:   i,
				Target:  tmux.PaneTarget(name, 0, i),
				Width:   80,
				Height:  24,
				Active:  i == 0,
				Command: "zsh",
			})
		}
		out = append(out, tmux.Session{Name: name, Windows: []tmux.Window{w}})
	}
	return out, nil
}

func (f *Tmux) paneExistsLocked(target string) bool {
	session, rest, ok := strings.Cut(target, ":")
	if !ok {
		return false
	}
	s, ok := f.sessions[session]
	if !ok {
		return false
	}
	for i := 0; i < s.panes; i++ {
		if rest == fmt.Sprintf("0.%d", i) {
			return true
		}
	}
	return false
}

func (f *Tmux) CapturePane(target string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("capture %s", target)
	if !f.paneExistsLocked(target) {
		return "", fmt.Errorf("capture-pane %s: can't find pane", target)
	}
	return f.captures[target], nil
}

func (f *Tmux) CapturePlain(target string) (string, error) {
	return f.CapturePane(target)
}

func (f *Tmux) SetBuffer(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("set-buffer")
	f.buffer = text
	return nil
}

func (f *Tmux) NewSession(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("new %s", name)
	if _, ok := f.sessions[name]; ok {
		return fmt.Errorf("tmux new-session: %w (duplicate session: %s)", tmux.ErrSessionExists, name)
	}
	f.sessions[name] = &fakeSession{name: name, created: len(f.calls), panes: 1}
	return nil
}

func (f *Tmux) RenameSession(oldName, newName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("rename %s %s", oldName, newName)
	s, ok := f.sessions[oldName]
	if !ok {
		return fmt.Errorf("tmux rename-session: %w (can't find session: %s)", tmux.ErrSessionNotFound, oldName)
	}
	if _, taken := f.sessions[newName]; taken {
		return fmt.Errorf("tmux rename-session: %w (duplicate session: %s)", tmux.ErrSessionExists, newName)
	}
	delete(f.sessions, oldName)
	s.name = newName
	f.sessions[newName] = s
	return nil
}

func (f *Tmux) KillSession(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("kill %s", name)
	if _, ok := f.sessions[name]; !ok {
		return fmt.Errorf("tmux kill-session: %w (can't find session: %s)", tmux.ErrSessionNotFound, name)
	}
	delete(f.sessions, name)
	return nil
}

func (f *Tmux) SendKeys(target, keys string, submit bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("send %s %q %t", target, keys, submit)
	if !f.paneExistsLocked(target) {
		return fmt.Errorf("send-keys %s: can't find pane", target)
	}
	return nil
}

func (f *Tmux) SwitchClient(target string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("switch %s", target)
	return f.SwitchErr
}
