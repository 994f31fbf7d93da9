// Package ui contains the coordinator: the single goroutine that owns the
// presented tree, reacts to keys, and decides what the backend should do.
//
// Message flow:
//   - Raw terminal input arrives from internal/input as message.KeyEvent.
//   - Executor responses arrive as message.Response and are applied to the
//     tree through internal/data/dispatcher.
//   - The refresh scheduler sends message.Event values; Tick and
//     RequestCapture become RefreshAll and CapturePane commands.
//   - Commands leave through internal/ui/command.Bus, which never blocks.
//
// Each loop iteration takes exactly one message. Pending keys always win
// over responses and events (see Coordinator.next), so a slow tmux or a
// burst of refreshes never delays a keystroke. A frame is rendered at the
// end of every iteration that changed what is on screen.
//
// State ownership:
//   - The presented tree (internal/state.Tree) is replaced wholesale on
//     every SessionsRefreshed; nothing else writes to it except captures.
//   - Selection, focus, view and mode live in internal/ui/state and are
//     reconciled against the tree after each replacement.
//   - Prompts and the send-keys input use bubbles textinput models, driven
//     directly with tea.KeyMsg values outside a Bubble Tea program.
package ui
