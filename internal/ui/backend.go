package ui

import (
	"fmt"

	"github.com/atomicstack/tmux-deck/internal/message"
	uistate "github.com/atomicstack/tmux-deck/internal/ui/state"
)

func (c *Coordinator) handleResponse(resp message.Response) {
	switch r := resp.(type) {
	case message.SessionsRefreshed:
		c.dispatcher.Handle(r)
		c.applyTree()
	case message.PaneCaptured:
		if res := c.dispatcher.Handle(r); res.Changed() && c.isVisible(r.Target) {
			c.dirty = true
		}
	case message.SessionCreated:
		if !r.Success {
			c.setError(fmt.Sprintf("new session %s: %s", r.Name, r.Err))
			return
		}
		c.setInfo(fmt.Sprintf("created session %s", r.Name))
		c.setSelection(uistate.Selection{Session: r.Name, Window: -1, Pane: -1})
	case message.SessionRenamed:
		if !r.Success {
			c.setError(fmt.Sprintf("rename %s: %s", r.OldName, r.Err))
			return
		}
		c.setInfo(fmt.Sprintf("renamed %s to %s", r.OldName, r.NewName))
		if c.sel.Session == r.OldName {
			sel := c.sel
			sel.Session = r.NewName
			c.setSelection(sel)
		}
	case message.SessionKilled:
		if !r.Success {
			c.setError(fmt.Sprintf("kill %s: %s", r.Name, r.Err))
			return
		}
		c.setInfo(fmt.Sprintf("killed session %s", r.Name))
	case message.KeysSent:
		c.clearError()
		c.bus.Enqueue(message.CapturePane{Target: r.Target})
	case message.ClientSwitched:
		c.requestQuit("switched to " + r.Target)
	case message.PaneCopied:
		c.setInfo(fmt.Sprintf("copied %d bytes from %s", r.Bytes, r.Target))
	case message.Error:
		if c.mode == uistate.ModeSwitching {
			c.setMode(uistate.ModeNormal)
		}
		c.setError(r.Message)
	}
}

// applyTree reconciles the selection after a replacement. The first
// snapshot seeds the selection from the configured target, or the first
// session when that target does not exist.
func (c *Coordinator) applyTree() {
	c.dirty = true
	sel := c.sel
	if !c.seeded {
		c.seeded = true
		sel = c.initial.Reconcile(c.tree)
		if sel.Empty() {
			sel = uistate.First(c.tree)
		}
	}
	c.setSelection(sel.Reconcile(c.tree))
	// Replace prunes captures of vanished targets, so a renamed session
	// keeps its selection but needs its preview fetched again.
	c.requestSelectedCaptures()
	if c.form != nil {
		c.form.setSessions(c.tree.Sessions())
	}
}
