// Package input runs the key input source: a goroutine locked to its own OS
// thread that polls the terminal and forwards raw events to the coordinator.
package input

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/atomicstack/tmux-deck/internal/message"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	DefaultInterval = 20 * time.Millisecond
	DefaultCapacity = 64
)

// Poller yields the next raw terminal event, waiting at most timeout.
type Poller interface {
	Poll(timeout time.Duration) (tea.Msg, bool)
}

// Source forwards polled events over a bounded channel. When the channel is
// full the oldest unread event is discarded so the newest keystroke always
// gets through.
type Source struct {
	poller   Poller
	interval time.Duration
	out      chan message.KeyEvent
	dropped  atomic.Uint64
	now      func() time.Time
}

func NewSource(p Poller, interval time.Duration, capacity int) *Source {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Source{
		poller:   p,
		interval: interval,
		out:      make(chan message.KeyEvent, capacity),
		now:      time.Now,
	}
}

// Events is the channel read by the coordinator. It is closed when Run
// returns.
func (s *Source) Events() <-chan message.KeyEvent {
	return s.out
}

// Dropped reports how many events were discarded by coalescing.
func (s *Source) Dropped() uint64 {
	return s.dropped.Load()
}

// Run polls until ctx is done. The goroutine stays locked to its OS thread
// so input latency does not depend on the rest of the scheduler's load.
func (s *Source) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(s.out)

	events.Input.Start(s.interval.String(), cap(s.out))
	defer func() { events.Input.Stop(s.Dropped()) }()

	for {
		if ctx.Err() != nil {
			return nil
		}
		msg, ok := s.poller.Poll(s.interval)
		if !ok {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		s.forward(message.KeyEvent{Msg: msg, Received: s.now()})
	}
}

// forward is only ever called from Run, so after evicting one element
// there is room for ev unless the consumer is racing us, in which case
// there is room anyway.
func (s *Source) forward(ev message.KeyEvent) {
	select {
	case s.out <- ev:
		return
	default:
	}
	select {
	case <-s.out:
		n := s.dropped.Add(1)
		events.Input.Coalesced(n)
	default:
	}
	select {
	case s.out <- ev:
	default:
		s.dropped.Add(1)
	}
}
