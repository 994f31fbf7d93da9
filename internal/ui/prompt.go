package ui

import (
	"fmt"

	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/atomicstack/tmux-deck/internal/message"
	tea "github.com/charmbracelet/bubbletea"
)

// killConfirm asks before destroying a session. The choice starts on No.
type killConfirm struct {
	target string
	yes    bool
}

func newKillConfirm(target string) *killConfirm {
	return &killConfirm{target: target}
}

func (k *killConfirm) Title() string {
	return fmt.Sprintf("Kill session %s?", k.target)
}

// Update returns done once the prompt is resolved; cmd is nil when the
// kill was declined.
func (k *killConfirm) Update(msg tea.KeyMsg) (cmd message.Command, done bool) {
	switch msg.String() {
	case "y", "Y":
		return k.accept(), true
	case "n", "N", "esc", "q":
		events.Session.CancelKill(k.target)
		return nil, true
	case "h", "l", "left", "right", "tab", "shift+tab":
		k.yes = !k.yes
		return nil, false
	case "enter":
		if k.yes {
			return k.accept(), true
		}
		events.Session.CancelKill(k.target)
		return nil, true
	}
	return nil, false
}

func (k *killConfirm) accept() message.Command {
	events.Session.SubmitKill(k.target)
	return message.KillSession{Name: k.target}
}
