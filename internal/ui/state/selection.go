package state

import (
	"strconv"
	"strings"

	tree "github.com/atomicstack/tmux-deck/internal/state"
	"github.com/atomicstack/tmux-deck/internal/tmux"
)

// Selection identifies the highlighted target by name and index rather than
// by position, so it survives a tree replacement. Window and Pane are -1
// when unset; an unset level resolves to tmux's active window or pane.
type Selection struct {
	Session string
	Window  int
	Pane    int
}

func None() Selection {
	return Selection{Window: -1, Pane: -1}
}

func (s Selection) Empty() bool {
	return s.Session == ""
}

func (s Selection) String() string {
	switch {
	case s.Empty():
		return ""
	case s.Window < 0:
		return s.Session
	case s.Pane < 0:
		return tmux.WindowTarget(s.Session, s.Window)
	default:
		return tmux.PaneTarget(s.Session, s.Window, s.Pane)
	}
}

// ParseTarget reads session[:window[.pane]]. Unparseable indexes are
// treated as unset.
func ParseTarget(target string) Selection {
	sel := None()
	target = strings.TrimSpace(target)
	if target == "" {
		return sel
	}
	name, rest, hasWindow := strings.Cut(target, ":")
	sel.Session = strings.TrimPrefix(name, "=")
	if !hasWindow {
		return sel
	}
	win, pane, hasPane := strings.Cut(rest, ".")
	if idx, err := strconv.Atoi(win); err == nil && idx >= 0 {
		sel.Window = idx
	} else {
		return sel
	}
	if hasPane {
		if idx, err := strconv.Atoi(pane); err == nil && idx >= 0 {
			sel.Pane = idx
		}
	}
	return sel
}

// Reconcile keeps s when its target still exists in t. A vanished pane
// falls back to its window, a vanished window to its session, and a
// vanished session to no selection.
func (s Selection) Reconcile(t *tree.Tree) Selection {
	if s.Empty() {
		return None()
	}
	if _, ok := t.Session(s.Session); !ok {
		return None()
	}
	if s.Window < 0 {
		return Selection{Session: s.Session, Window: -1, Pane: -1}
	}
	if _, ok := t.Window(s.Session, s.Window); !ok {
		return Selection{Session: s.Session, Window: -1, Pane: -1}
	}
	if s.Pane < 0 {
		return s
	}
	if _, ok := t.Pane(s.Session, s.Window, s.Pane); !ok {
		return Selection{Session: s.Session, Window: s.Window, Pane: -1}
	}
	return s
}

// ResolveWindow returns the selected window, or the session's active window
// when none is selected explicitly.
func (s Selection) ResolveWindow(t *tree.Tree) (tmux.Window, bool) {
	if s.Empty() {
		return tmux.Window{}, false
	}
	if s.Window >= 0 {
		return t.Window(s.Session, s.Window)
	}
	sess, ok := t.Session(s.Session)
	if !ok {
		return tmux.Window{}, false
	}
	return sess.ActiveWindow()
}

// ResolvePane returns the pane commands aimed at the selection act on.
func (s Selection) ResolvePane(t *tree.Tree) (tmux.Pane, bool) {
	w, ok := s.ResolveWindow(t)
	if !ok {
		return tmux.Pane{}, false
	}
	if s.Pane >= 0 && s.Window >= 0 {
		for _, p := range w.Panes {
			if p.Index == s.Pane {
				return p, true
			}
		}
		return tmux.Pane{}, false
	}
	return w.ActivePane()
}

// First selects the first session of t, or nothing when t is empty.
func First(t *tree.Tree) Selection {
	sessions := t.Sessions()
	if len(sessions) == 0 {
		return None()
	}
	return Selection{Session: sessions[0].Name, Window: -1, Pane: -1}
}
