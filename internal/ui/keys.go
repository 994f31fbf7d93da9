package ui

import (
	"fmt"
	"time"

	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/atomicstack/tmux-deck/internal/message"
	uistate "github.com/atomicstack/tmux-deck/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func (c *Coordinator) handleKeyEvent(ev message.KeyEvent) {
	switch msg := ev.Msg.(type) {
	case tea.WindowSizeMsg:
		c.handleResize(msg)
	case tea.KeyMsg:
		events.UI.Key(c.mode.String(), msg.String())
		c.handleKey(msg, ev.Received)
	}
}

func (c *Coordinator) handleResize(msg tea.WindowSizeMsg) {
	if msg.Width <= 0 || msg.Height <= 0 {
		return
	}
	if msg.Width == c.width && msg.Height == c.height {
		return
	}
	c.width = msg.Width
	c.height = msg.Height
	c.dirty = true
}

func (c *Coordinator) handleKey(msg tea.KeyMsg, at time.Time) {
	if msg.Type == tea.KeyCtrlC {
		c.requestQuit("ctrl+c")
		return
	}
	switch c.mode {
	case uistate.ModeNewSession, uistate.ModeRenameSession:
		c.handleFormKey(msg)
	case uistate.ModeConfirmKill:
		c.handleConfirmKey(msg)
	case uistate.ModeInput:
		c.handleInputKey(msg)
	case uistate.ModeSwitching:
		switch msg.String() {
		case "q", "esc":
			c.requestQuit(msg.String())
		}
	default:
		c.handleNormalKey(msg, at)
	}
}

func (c *Coordinator) handleNormalKey(msg tea.KeyMsg, at time.Time) {
	key := msg.String()
	if msg.Type == tea.KeySpace {
		key = " "
	}
	if key != " " {
		c.lastSpace = time.Time{}
	}
	switch key {
	case "q", "esc":
		c.requestQuit(key)
	case " ":
		c.handleSpace(at)
	case "j", "down":
		c.moveVertical(1)
	case "k", "up":
		c.moveVertical(-1)
	case "l", "right", "tab":
		c.moveHorizontal(1)
	case "h", "left", "shift+tab":
		c.moveHorizontal(-1)
	case "r":
		c.bus.Enqueue(message.RefreshAll{})
	case "ctrl+n":
		c.openNewSession()
	case "ctrl+r":
		c.openRenameSession()
	case "ctrl+x":
		c.openKillConfirm()
	case "i":
		c.openInput()
	case "y":
		c.copySelectedPane()
	case "enter":
		c.switchToSelection()
	}
}

// handleSpace toggles the view on the second space within the window.
func (c *Coordinator) handleSpace(at time.Time) {
	if at.IsZero() {
		at = c.now()
	}
	if !c.lastSpace.IsZero() && at.Sub(c.lastSpace) <= doubleSpaceWindow {
		c.lastSpace = time.Time{}
		c.view = c.view.Toggle()
		events.UI.View(c.view.String())
		c.dirty = true
		c.requestSelectedCaptures()
		return
	}
	c.lastSpace = at
}

func (c *Coordinator) moveVertical(delta int) {
	if c.view == uistate.ViewMultiPreview {
		c.moveSelection(c.sel.MoveWindow(c.tree, delta))
		return
	}
	c.moveSelection(c.sel.Move(c.tree, c.focus, delta))
}

func (c *Coordinator) moveHorizontal(delta int) {
	if c.view == uistate.ViewMultiPreview {
		c.moveSelection(c.sel.MoveSession(c.tree, delta))
		return
	}
	next := c.focus.Next()
	if delta < 0 {
		next = c.focus.Prev()
	}
	if next != c.focus {
		c.focus = next
		c.dirty = true
	}
	if c.sel.Empty() {
		c.moveSelection(c.sel.MoveSession(c.tree, 0))
	}
}

func (c *Coordinator) moveSelection(sel uistate.Selection) {
	if sel == c.sel {
		return
	}
	c.setSelection(sel)
	c.requestSelectedCaptures()
}

// requestSelectedCaptures asks for captures of visible panes that have no
// cached content yet, so moving the cursor fills the preview promptly.
func (c *Coordinator) requestSelectedCaptures() {
	for _, target := range c.visibleTargets() {
		if _, ok := c.tree.Capture(target); ok {
			continue
		}
		c.bus.Enqueue(message.CapturePane{Target: target})
	}
}

func (c *Coordinator) openNewSession() {
	c.form = newSessionForm("", c.tree.Sessions())
	events.Session.NewPrompt(len(c.tree.Sessions()))
	c.setMode(uistate.ModeNewSession)
}

func (c *Coordinator) openRenameSession() {
	if c.sel.Empty() {
		c.setError("rename: no session selected")
		return
	}
	c.form = newSessionForm(c.sel.Session, c.tree.Sessions())
	events.Session.RenamePrompt(c.sel.Session)
	c.setMode(uistate.ModeRenameSession)
}

func (c *Coordinator) openKillConfirm() {
	if c.sel.Empty() {
		c.setError("kill: no session selected")
		return
	}
	c.confirm = newKillConfirm(c.sel.Session)
	events.Session.KillPrompt(c.sel.Session)
	c.setMode(uistate.ModeConfirmKill)
}

func (c *Coordinator) openInput() {
	pane, ok := c.sel.ResolvePane(c.tree)
	if !ok {
		c.setError("input: no pane selected")
		return
	}
	c.input = newInputForm(pane.Target)
	c.setMode(uistate.ModeInput)
}

func (c *Coordinator) copySelectedPane() {
	pane, ok := c.sel.ResolvePane(c.tree)
	if !ok {
		c.setError("copy: no pane selected")
		return
	}
	events.Pane.Copy(pane.Target)
	c.bus.Enqueue(message.CopyPane{Target: pane.Target})
}

func (c *Coordinator) switchToSelection() {
	if c.sel.Empty() {
		c.setError("switch: no session selected")
		return
	}
	target := c.sel.String()
	events.Session.Switch(target)
	c.bus.Enqueue(message.SwitchClient{Target: target})
	c.setInfo(fmt.Sprintf("switching to %s", target))
	c.setMode(uistate.ModeSwitching)
}

func (c *Coordinator) handleFormKey(msg tea.KeyMsg) {
	if c.form == nil {
		c.setMode(uistate.ModeNormal)
		return
	}
	cmd, done, cancel := c.form.Update(msg)
	c.dirty = true
	if cancel || done {
		c.form = nil
		c.setMode(uistate.ModeNormal)
	}
	if done && cmd != nil {
		c.bus.Enqueue(cmd)
	}
}

func (c *Coordinator) handleConfirmKey(msg tea.KeyMsg) {
	if c.confirm == nil {
		c.setMode(uistate.ModeNormal)
		return
	}
	cmd, done := c.confirm.Update(msg)
	c.dirty = true
	if !done {
		return
	}
	c.confirm = nil
	c.setMode(uistate.ModeNormal)
	if cmd != nil {
		c.bus.Enqueue(cmd)
	}
}

func (c *Coordinator) handleInputKey(msg tea.KeyMsg) {
	if c.input == nil {
		c.setMode(uistate.ModeNormal)
		return
	}
	cmd, leave := c.input.Update(msg)
	c.dirty = true
	if cmd != nil {
		if sk, ok := cmd.(message.SendKeys); ok {
			events.Pane.SendKeys(sk.Target, len(sk.Keys))
		}
		c.bus.Enqueue(cmd)
	}
	if leave {
		c.input = nil
		c.setMode(uistate.ModeNormal)
	}
}
