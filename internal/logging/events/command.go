package events

import (
	"time"

	"github.com/atomicstack/tmux-deck/internal/logging"
)

// CommandTracer follows commands from the coordinator's queue through the
// backend executor.
type CommandTracer struct{}

var Command = CommandTracer{}

func (CommandTracer) Queue(id, kind string, depth int) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "kind": kind, "depth": depth})
}

func (CommandTracer) Coalesce(kind, target string) {
	logging.Trace("command.coalesce", map[string]interface{}{"kind": kind, "target": target})
}

func (CommandTracer) Start(id, kind string, waited time.Duration) {
	logging.Trace("command.start", map[string]interface{}{"id": id, "kind": kind, "waited_ms": waited.Milliseconds()})
}

func (CommandTracer) Result(id, kind string, elapsed time.Duration, failure string) {
	payload := map[string]interface{}{"id": id, "kind": kind, "elapsed_ms": elapsed.Milliseconds()}
	if failure != "" {
		payload["error"] = failure
	}
	logging.Trace("command.result", payload)
}

func (CommandTracer) Dropped(id, kind string) {
	logging.Trace("command.response.dropped", map[string]interface{}{"id": id, "kind": kind})
}
