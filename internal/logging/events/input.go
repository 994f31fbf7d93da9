package events

import "github.com/atomicstack/tmux-deck/internal/logging"

type InputTracer struct{}

var Input = InputTracer{}

func (InputTracer) Start(interval string, capacity int) {
	logging.Trace("input.start", map[string]interface{}{"interval": interval, "capacity": capacity})
}

func (InputTracer) Coalesced(dropped uint64) {
	logging.Trace("input.coalesced", map[string]interface{}{"dropped": dropped})
}

func (InputTracer) Stop(dropped uint64) {
	logging.Trace("input.stop", map[string]interface{}{"dropped": dropped})
}
