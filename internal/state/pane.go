package state

import (
	"time"

	"github.com/atomicstack/tmux-deck/internal/tmux"
	"github.com/cespare/xxhash/v2"
)

// Capture is the last captured content of one pane.
type Capture struct {
	Content string
	Digest  uint64
	At      time.Time
}

func (t *Tree) Pane(session string, window, index int) (tmux.Pane, bool) {
	w, ok := t.Window(session, window)
	if !ok {
		return tmux.Pane{}, false
	}
	for _, p := range w.Panes {
		if p.Index == index {
			return p, true
		}
	}
	return tmux.Pane{}, false
}

// PaneByTarget looks a pane up by its session:window.pane address.
func (t *Tree) PaneByTarget(target string) (tmux.Pane, bool) {
	for _, s := range t.sessions {
		for _, w := range s.Windows {
			for _, p := range w.Panes {
				if p.Target == target {
					return p, true
				}
			}
		}
	}
	return tmux.Pane{}, false
}

// SetCapture stores content for target. Unknown targets are ignored, and
// content identical to the cached copy only refreshes the timestamp.
// changed reports whether anything visible differs.
func (t *Tree) SetCapture(target, content string, at time.Time) (changed bool) {
	if _, ok := t.PaneByTarget(target); !ok {
		return false
	}
	digest := xxhash.Sum64String(content)
	if prev, ok := t.captures[target]; ok && prev.Digest == digest {
		prev.At = at
		t.captures[target] = prev
		return false
	}
	t.captures[target] = Capture{Content: content, Digest: digest, At: at}
	return true
}

func (t *Tree) Capture(target string) (Capture, bool) {
	c, ok := t.captures[target]
	return c, ok
}

func (t *Tree) CaptureCount() int {
	return len(t.captures)
}
