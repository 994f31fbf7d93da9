package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/atomicstack/tmux-deck/internal/message"
	"github.com/atomicstack/tmux-deck/internal/tmux"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const nameCharLimit = 64

// sessionForm collects a name for a new session, or a new name for target
// when target is set.
type sessionForm struct {
	input    textinput.Model
	existing map[string]struct{}
	target   string
	err      string
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	if styles.Prompt != nil {
		ti.PromptStyle = *styles.Prompt
	}
	if styles.Placeholder != nil {
		ti.PlaceholderStyle = *styles.Placeholder
	}
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	return ti
}

func newSessionForm(target string, sessions []tmux.Session) *sessionForm {
	ti := newTextInput("session-name")
	ti.CharLimit = nameCharLimit
	if target != "" {
		ti.SetValue(target)
		ti.CursorEnd()
	}
	f := &sessionForm{input: ti, target: target}
	f.setSessions(sessions)
	return f
}

func (f *sessionForm) rename() bool      { return f.target != "" }
func (f *sessionForm) Value() string     { return strings.TrimSpace(f.input.Value()) }
func (f *sessionForm) Error() string     { return f.err }
func (f *sessionForm) InputView() string { return f.input.View() }

func (f *sessionForm) Title() string {
	if f.rename() {
		return fmt.Sprintf("Rename %s", f.target)
	}
	return "Create Session"
}

func (f *sessionForm) Help() string {
	if f.rename() {
		return "Enter to rename · Esc to cancel · Ctrl+U to clear"
	}
	return "Enter to create · Esc to cancel · Ctrl+U to clear"
}

// Update feeds one key to the form. done carries the resulting command;
// cancel closes the form without one.
func (f *sessionForm) Update(msg tea.KeyMsg) (cmd message.Command, done, cancel bool) {
	switch msg.Type {
	case tea.KeyCtrlU:
		if f.input.Value() != "" {
			f.input.SetValue("")
			f.input.CursorStart()
		}
		f.err = f.validate(f.Value())
		return nil, false, false
	case tea.KeyEsc:
		if f.rename() {
			events.Session.CancelRename(f.target, events.SessionReasonEscape)
		} else {
			events.Session.CancelNew(events.SessionReasonEscape)
		}
		return nil, false, true
	case tea.KeyEnter:
		return f.submit()
	}
	f.input, _ = f.input.Update(msg)
	f.err = f.validate(f.Value())
	return nil, false, false
}

func (f *sessionForm) submit() (message.Command, bool, bool) {
	value := f.Value()
	if !f.rename() {
		if err := f.validate(value); err != "" {
			f.err = err
			return nil, false, false
		}
		events.Session.SubmitNew(value)
		return message.NewSession{Name: value}, true, false
	}
	switch value {
	case "":
		events.Session.CancelRename(f.target, events.SessionReasonEmpty)
		return nil, false, true
	case f.target:
		events.Session.CancelRename(f.target, events.SessionReasonNoop)
		return nil, false, true
	}
	if err := f.validate(value); err != "" {
		f.err = err
		return nil, false, false
	}
	events.Session.SubmitRename(f.target, value)
	return message.RenameSession{OldName: f.target, NewName: value}, true, false
}

func (f *sessionForm) setSessions(sessions []tmux.Session) {
	f.existing = make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		if s.Name == f.target {
			continue
		}
		f.existing[s.Name] = struct{}{}
	}
	f.err = f.validate(f.Value())
}

// validate only catches names already visible in the tree; tmux remains
// the authority and reports any collision it sees.
func (f *sessionForm) validate(name string) string {
	if name == "" {
		if f.rename() {
			return ""
		}
		return "Session name required"
	}
	if strings.ContainsAny(name, ":.") {
		return "Session names cannot contain ':' or '.'"
	}
	if _, exists := f.existing[name]; exists {
		return "Session already exists"
	}
	return ""
}

// inputForm types one line of text into a pane.
type inputForm struct {
	input  textinput.Model
	target string
}

func newInputForm(target string) *inputForm {
	return &inputForm{input: newTextInput("command"), target: target}
}

func (f *inputForm) Title() string     { return fmt.Sprintf("Send to %s", f.target) }
func (f *inputForm) InputView() string { return f.input.View() }
func (f *inputForm) Help() string      { return "Enter to send · Esc to leave input mode" }

// Update returns a SendKeys command on enter. leave is set on enter and
// esc.
func (f *inputForm) Update(msg tea.KeyMsg) (cmd message.Command, leave bool) {
	switch msg.Type {
	case tea.KeyEsc:
		return nil, true
	case tea.KeyEnter:
		keys := f.input.Value()
		f.input.SetValue("")
		return message.SendKeys{Target: f.target, Keys: keys, Submit: true}, true
	case tea.KeyCtrlU:
		f.input.SetValue("")
		return nil, false
	}
	f.input, _ = f.input.Update(msg)
	return nil, false
}
