// Package dispatcher applies data-bearing executor responses to the
// presented tree.
package dispatcher

import (
	"time"

	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/atomicstack/tmux-deck/internal/message"
	"github.com/atomicstack/tmux-deck/internal/state"
)

type Result struct {
	SessionsUpdated bool
	PaneUpdated     bool
	Target          string
}

// Changed reports whether the frame needs redrawing.
func (r Result) Changed() bool {
	return r.SessionsUpdated || r.PaneUpdated
}

type Dispatcher struct {
	tree *state.Tree
	now  func() time.Time
}

func New(tree *state.Tree) *Dispatcher {
	return &Dispatcher{tree: tree, now: time.Now}
}

// Handle applies SessionsRefreshed and PaneCaptured. Any other response
// leaves the tree untouched and yields a zero Result.
func (d *Dispatcher) Handle(resp message.Response) Result {
	var res Result
	switch r := resp.(type) {
	case message.SessionsRefreshed:
		kept := d.tree.Replace(r.Sessions)
		events.Refresh.Applied(len(r.Sessions), kept)
		res.SessionsUpdated = true
	case message.PaneCaptured:
		changed := d.tree.SetCapture(r.Target, r.Content, d.now())
		events.Pane.Captured(r.Target, len(r.Content), changed)
		res.PaneUpdated = changed
		res.Target = r.Target
	}
	return res
}
