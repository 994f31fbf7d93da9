package events

import "github.com/atomicstack/tmux-deck/internal/logging"

type UITracer struct{}

type PaneTracer struct{}

var (
	UI   = UITracer{}
	Pane = PaneTracer{}
)

func (UITracer) Key(mode, key string) {
	logging.Trace("ui.key", map[string]interface{}{"mode": mode, "key": key})
}

func (UITracer) Mode(from, to string) {
	logging.Trace("ui.mode", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) View(view string) {
	logging.Trace("ui.view", map[string]interface{}{"view": view})
}

func (UITracer) Selection(session string, window, pane int) {
	logging.Trace("ui.selection", map[string]interface{}{"session": session, "window": window, "pane": pane})
}

func (UITracer) Error(message string) {
	logging.Trace("ui.error", map[string]interface{}{"message": message})
}

func (UITracer) Exit(reason string) {
	logging.Trace("ui.exit", map[string]interface{}{"reason": reason})
}

func (PaneTracer) Captured(target string, bytes int, changed bool) {
	logging.Trace("pane.captured", map[string]interface{}{"target": target, "bytes": bytes, "changed": changed})
}

func (PaneTracer) SendKeys(target string, length int) {
	logging.Trace("pane.send-keys", map[string]interface{}{"target": target, "length": length})
}

func (PaneTracer) Copy(target string) {
	logging.Trace("pane.copy", map[string]interface{}{"target": target})
}
