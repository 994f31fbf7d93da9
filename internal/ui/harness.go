package ui

import (
	"context"
	"time"

	"github.com/atomicstack/tmux-deck/internal/message"
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives a Coordinator synchronously, one message at a time, for
// tests that do not want goroutines or timing.
type Harness struct {
	c        *Coordinator
	commands chan message.Envelope
	frames   []string
}

// NewHarness builds a coordinator whose commands are collected instead of
// executed.
func NewHarness(cfg Config) *Harness {
	h := &Harness{commands: make(chan message.Envelope, 1024)}
	h.c = New(nil, nil, nil, h.commands, RendererFunc(func(frame string) {
		h.frames = append(h.frames, frame)
	}), cfg)
	return h
}

// Send delivers a key or resize message received now.
func (h *Harness) Send(msg tea.Msg) {
	h.SendAt(msg, h.c.now())
}

func (h *Harness) SendAt(msg tea.Msg, at time.Time) {
	h.step(inbound{source: fromKeys, key: message.KeyEvent{Msg: msg, Received: at}})
}

// Type sends each rune of text as its own key.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *Harness) Respond(resp message.Response) {
	h.step(inbound{source: fromResponses, resp: resp})
}

func (h *Harness) Emit(ev message.Event) {
	h.step(inbound{source: fromEvents, event: ev})
}

func (h *Harness) step(in inbound) {
	_ = h.c.handle(context.Background(), in)
	h.c.flush()
	if h.c.banner.Expire(h.c.now()) {
		h.c.dirty = true
	}
	if h.c.dirty {
		h.c.render()
	}
}

// Commands drains the commands issued since the last call.
func (h *Harness) Commands() []message.Command {
	var out []message.Command
	for {
		select {
		case env := <-h.commands:
			out = append(out, env.Command)
		default:
			return out
		}
	}
}

// View returns the current frame.
func (h *Harness) View() string {
	return h.c.View()
}

// Frames reports how many frames have been rendered.
func (h *Harness) Frames() int {
	return len(h.frames)
}

// Quit reports whether the coordinator asked to stop.
func (h *Harness) Quit() bool {
	return h.c.quit
}

// Coordinator exposes the underlying coordinator.
func (h *Harness) Coordinator() *Coordinator {
	return h.c
}
