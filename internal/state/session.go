// Package state holds the coordinator's presented tree: the last complete
// tmux snapshot plus the pane captures that belong to it.
package state

import "github.com/atomicstack/tmux-deck/internal/tmux"

// Tree is owned by the coordinator and is never shared with other units.
type Tree struct {
	sessions   []tmux.Session
	captures   map[string]Capture
	generation uint64
}

func NewTree() *Tree {
	return &Tree{captures: make(map[string]Capture)}
}

// Replace installs a new snapshot wholesale. Captures are carried forward
// for panes whose target still exists and dropped for the rest. It returns
// the number of captures kept.
func (t *Tree) Replace(sessions []tmux.Session) int {
	t.sessions = cloneSessions(sessions)
	t.generation++
	live := make(map[string]struct{})
	for _, s := range t.sessions {
		for _, w := range s.Windows {
			for _, p := range w.Panes {
				live[p.Target] = struct{}{}
			}
		}
	}
	for target := range t.captures {
		if _, ok := live[target]; !ok {
			delete(t.captures, target)
		}
	}
	return len(t.captures)
}

// Sessions returns the current snapshot. Callers must not modify it.
func (t *Tree) Sessions() []tmux.Session {
	return t.sessions
}

// Generation counts completed replacements; zero means no snapshot yet.
func (t *Tree) Generation() uint64 {
	return t.generation
}

func (t *Tree) Empty() bool {
	return len(t.sessions) == 0
}

func (t *Tree) Session(name string) (tmux.Session, bool) {
	for _, s := range t.sessions {
		if s.Name == name {
			return s, true
		}
	}
	return tmux.Session{}, false
}

// SessionIndex returns the position of name in the snapshot, or -1.
func (t *Tree) SessionIndex(name string) int {
	for i, s := range t.sessions {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func cloneSessions(sessions []tmux.Session) []tmux.Session {
	if len(sessions) == 0 {
		return nil
	}
	dup := make([]tmux.Session, len(sessions))
	copy(dup, sessions)
	return dup
}
