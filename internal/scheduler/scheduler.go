// Package scheduler emits the periodic events that drive refreshes. It never
// talks to tmux: the coordinator decides what each event means.
package scheduler

import (
	"context"
	"time"

	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/atomicstack/tmux-deck/internal/message"
)

// Scheduler owns the refresh and capture tickers.
type Scheduler struct {
	interval        time.Duration
	captureInterval time.Duration
	out             chan<- message.Event
	now             func() time.Time
}

// New returns a scheduler sending on out. A captureInterval of zero reuses
// interval.
func New(interval, captureInterval time.Duration, out chan<- message.Event) *Scheduler {
	if captureInterval <= 0 {
		captureInterval = interval
	}
	return &Scheduler{
		interval:        interval,
		captureInterval: captureInterval,
		out:             out,
		now:             time.Now,
	}
}

// Run emits Tick and RequestCapture until ctx is done or shutdown fires.
// On shutdown it sends a single Shutdown event first. Periodic events are
// dropped rather than queued when the coordinator has not drained the
// previous ones.
func (s *Scheduler) Run(ctx context.Context, shutdown <-chan struct{}) error {
	events.Refresh.Start(s.interval, s.captureInterval)

	s.offer(message.Tick{At: s.now()})
	s.offer(message.RequestCapture{At: s.now()})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	capture := time.NewTicker(s.captureInterval)
	defer capture.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-shutdown:
			s.sendShutdown(ctx, "signal")
			return nil
		case <-ticker.C:
			s.offer(message.Tick{At: s.now()})
		case <-capture.C:
			s.offer(message.RequestCapture{At: s.now()})
		}
	}
}

func (s *Scheduler) offer(ev message.Event) {
	select {
	case s.out <- ev:
	default:
		events.Refresh.Skip(eventName(ev))
	}
}

// sendShutdown delivers Shutdown unless the coordinator is already gone.
func (s *Scheduler) sendShutdown(ctx context.Context, reason string) {
	events.Refresh.Shutdown(reason)
	select {
	case s.out <- message.Shutdown{Reason: reason}:
	case <-ctx.Done():
	}
}

func eventName(ev message.Event) string {
	switch ev.(type) {
	case message.Tick:
		return "tick"
	case message.RequestCapture:
		return "request-capture"
	default:
		return "shutdown"
	}
}
