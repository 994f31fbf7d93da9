package events

import "github.com/atomicstack/tmux-deck/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) UnitExit(unit string, err error) {
	payload := map[string]interface{}{"unit": unit}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.unit.exit", payload)
}

func (AppTracer) Stop(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.stop", payload)
}
