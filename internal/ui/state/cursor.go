package state

import (
	tree "github.com/atomicstack/tmux-deck/internal/state"
	"github.com/atomicstack/tmux-deck/internal/tmux"
)

// MoveSession steps delta sessions from the current one, clamping at both
// ends. Moving from no selection lands on the first or last session.
func (s Selection) MoveSession(t *tree.Tree, delta int) Selection {
	sessions := t.Sessions()
	if len(sessions) == 0 {
		return None()
	}
	pos := t.SessionIndex(s.Session)
	switch {
	case pos < 0 && delta >= 0:
		pos = 0
	case pos < 0:
		pos = len(sessions) - 1
	default:
		pos = clamp(pos+delta, len(sessions))
	}
	if sessions[pos].Name == s.Session {
		return s
	}
	return Selection{Session: sessions[pos].Name, Window: -1, Pane: -1}
}

// MoveWindow steps through the windows of the selected session.
func (s Selection) MoveWindow(t *tree.Tree, delta int) Selection {
	sess, ok := t.Session(s.Session)
	if !ok || len(sess.Windows) == 0 {
		return s
	}
	current, _ := s.ResolveWindow(t)
	pos := windowPosition(sess.Windows, current.Index)
	pos = clamp(pos+delta, len(sess.Windows))
	next := sess.Windows[pos].Index
	if next == s.Window {
		return s
	}
	return Selection{Session: s.Session, Window: next, Pane: -1}
}

// MovePane steps through the panes of the resolved window. The window
// becomes explicit so the pane index is meaningful.
func (s Selection) MovePane(t *tree.Tree, delta int) Selection {
	w, ok := s.ResolveWindow(t)
	if !ok || len(w.Panes) == 0 {
		return s
	}
	current, _ := s.ResolvePane(t)
	pos := 0
	for i, p := range w.Panes {
		if p.Index == current.Index {
			pos = i
			break
		}
	}
	pos = clamp(pos+delta, len(w.Panes))
	return Selection{Session: s.Session, Window: w.Index, Pane: w.Panes[pos].Index}
}

// Move dispatches to the level named by focus.
func (s Selection) Move(t *tree.Tree, focus Focus, delta int) Selection {
	switch focus {
	case FocusWindows:
		return s.MoveWindow(t, delta)
	case FocusPanes:
		return s.MovePane(t, delta)
	default:
		return s.MoveSession(t, delta)
	}
}

func windowPosition(windows []tmux.Window, index int) int {
	for i, w := range windows {
		if w.Index == index {
			return i
		}
	}
	return 0
}

func clamp(pos, n int) int {
	if pos < 0 {
		return 0
	}
	if pos >= n {
		return n - 1
	}
	return pos
}
