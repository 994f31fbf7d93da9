package events

import (
	"time"

	"github.com/atomicstack/tmux-deck/internal/logging"
)

type RefreshTracer struct{}

var Refresh = RefreshTracer{}

func (RefreshTracer) Start(interval, capture time.Duration) {
	logging.Trace("refresh.start", map[string]interface{}{
		"interval_ms": interval.Milliseconds(),
		"capture_ms":  capture.Milliseconds(),
	})
}

func (RefreshTracer) Skip(event string) {
	logging.Trace("refresh.skip", map[string]interface{}{"event": event})
}

func (RefreshTracer) Applied(sessions, captures int) {
	logging.Trace("refresh.applied", map[string]interface{}{"sessions": sessions, "captures": captures})
}

func (RefreshTracer) Shutdown(reason string) {
	logging.Trace("refresh.shutdown", map[string]interface{}{"reason": reason})
}
