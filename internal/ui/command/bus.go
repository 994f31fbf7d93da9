// Package command queues commands on their way from the coordinator to the
// backend executor.
package command

import (
	"time"

	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/atomicstack/tmux-deck/internal/message"
	"github.com/google/uuid"
)

// Bus holds commands in issuance order until the executor accepts them.
// The coordinator drains it with a select send case on Out and Head, so
// enqueueing never blocks. A read-only command that is already waiting
// absorbs a later duplicate unless a mutation was queued in between.
// Mutations are never merged or dropped.
type Bus struct {
	out     chan<- message.Envelope
	pending []message.Envelope
	closed  bool
	now     func() time.Time
	newID   func() string
}

func New(out chan<- message.Envelope) *Bus {
	return &Bus{
		out:   out,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Enqueue appends cmd. It returns false when cmd was merged into a waiting
// duplicate or the bus is closed.
func (b *Bus) Enqueue(cmd message.Command) bool {
	if b.closed || cmd == nil {
		return false
	}
	if key := coalesceKey(cmd); key != "" && b.waiting(key) {
		events.Command.Coalesce(cmd.Kind(), target(cmd))
		return false
	}
	env := message.Envelope{ID: b.newID(), Issued: b.now(), Command: cmd}
	b.pending = append(b.pending, env)
	events.Command.Queue(env.ID, cmd.Kind(), len(b.pending))
	return true
}

// waiting scans back from the tail, stopping at the newest mutation.
func (b *Bus) waiting(key string) bool {
	for i := len(b.pending) - 1; i >= 0; i-- {
		cmd := b.pending[i].Command
		if cmd.Mutating() {
			return false
		}
		if coalesceKey(cmd) == key {
			return true
		}
	}
	return false
}

// Out returns the executor channel while something is pending, and nil
// otherwise so the send case stays disabled.
func (b *Bus) Out() chan<- message.Envelope {
	if b.closed || len(b.pending) == 0 {
		return nil
	}
	return b.out
}

// Head is the next envelope to send. It is the zero Envelope when nothing
// is pending.
func (b *Bus) Head() message.Envelope {
	if len(b.pending) == 0 {
		return message.Envelope{}
	}
	return b.pending[0]
}

// Sent removes the head after a successful send.
func (b *Bus) Sent() {
	if len(b.pending) == 0 {
		return
	}
	b.pending[0] = message.Envelope{}
	b.pending = b.pending[1:]
}

func (b *Bus) Len() int {
	return len(b.pending)
}

// Pending returns a copy of the queue, oldest first.
func (b *Bus) Pending() []message.Envelope {
	return append([]message.Envelope(nil), b.pending...)
}

// Close discards anything still pending and closes the executor channel.
func (b *Bus) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.pending = nil
	close(b.out)
}

func coalesceKey(cmd message.Command) string {
	switch c := cmd.(type) {
	case message.RefreshAll:
		return c.Kind()
	case message.CapturePane:
		return c.Kind() + " " + c.Target
	case message.CopyPane:
		return c.Kind() + " " + c.Target
	}
	return ""
}

func target(cmd message.Command) string {
	switch c := cmd.(type) {
	case message.CapturePane:
		return c.Target
	case message.CopyPane:
		return c.Target
	}
	return ""
}
