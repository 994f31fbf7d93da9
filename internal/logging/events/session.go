package events

import "github.com/atomicstack/tmux-deck/internal/logging"

type SessionTracer struct{}

type sessionReason string

const (
	SessionReasonEscape sessionReason = "escape"
	SessionReasonEmpty  sessionReason = "empty"
	SessionReasonNoop   sessionReason = "unchanged"
)

var Session = SessionTracer{}

func (SessionTracer) NewPrompt(existing int) {
	logging.Trace("session.new.prompt", map[string]interface{}{"existing": existing})
}

func (SessionTracer) RenamePrompt(target string) {
	logging.Trace("session.rename.prompt", map[string]interface{}{"target": target})
}

func (SessionTracer) KillPrompt(target string) {
	logging.Trace("session.kill.prompt", map[string]interface{}{"target": target})
}

func (SessionTracer) Switch(target string) {
	logging.Trace("session.switch", map[string]interface{}{"target": target})
}

func (SessionTracer) SubmitNew(name string) {
	logging.Trace("session.new.submit", map[string]interface{}{"name": name})
}

func (SessionTracer) SubmitRename(target, name string) {
	logging.Trace("session.rename.submit", map[string]interface{}{"target": target, "name": name})
}

func (SessionTracer) SubmitKill(target string) {
	logging.Trace("session.kill.submit", map[string]interface{}{"target": target})
}

func (SessionTracer) CancelNew(reason sessionReason) {
	logging.Trace("session.new.cancel", map[string]interface{}{"reason": string(reason)})
}

func (SessionTracer) CancelRename(target string, reason sessionReason) {
	logging.Trace("session.rename.cancel", map[string]interface{}{"target": target, "reason": string(reason)})
}

func (SessionTracer) CancelKill(target string) {
	logging.Trace("session.kill.cancel", map[string]interface{}{"target": target})
}
