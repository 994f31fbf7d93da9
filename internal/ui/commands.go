package ui

import (
	uistate "github.com/atomicstack/tmux-deck/internal/ui/state"
)

// visibleTargets lists the panes whose captures are on screen. The tree
// view shows the selected pane; the multi-preview shows the active pane
// of every window in the selected session.
func (c *Coordinator) visibleTargets() []string {
	if c.sel.Empty() {
		return nil
	}
	if c.view == uistate.ViewTree {
		pane, ok := c.sel.ResolvePane(c.tree)
		if !ok {
			return nil
		}
		return []string{pane.Target}
	}
	sess, ok := c.tree.Session(c.sel.Session)
	if !ok {
		return nil
	}
	targets := make([]string, 0, len(sess.Windows))
	for _, w := range sess.Windows {
		if p, ok := w.ActivePane(); ok {
			targets = append(targets, p.Target)
		}
	}
	return targets
}

func (c *Coordinator) isVisible(target string) bool {
	for _, t := range c.visibleTargets() {
		if t == target {
			return true
		}
	}
	return false
}
