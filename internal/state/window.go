package state

import "github.com/atomicstack/tmux-deck/internal/tmux"

func (t *Tree) Window(session string, index int) (tmux.Window, bool) {
	s, ok := t.Session(session)
	if !ok {
		return tmux.Window{}, false
	}
	for _, w := range s.Windows {
		if w.Index == index {
			return w, true
		}
	}
	return tmux.Window{}, false
}

// WindowPosition returns the position of window index within session, or -1.
func (t *Tree) WindowPosition(session string, index int) int {
	s, ok := t.Session(session)
	if !ok {
		return -1
	}
	for i, w := range s.Windows {
		if w.Index == index {
			return i
		}
	}
	return -1
}
