// Package backend hosts the executor: the only unit that talks to tmux.
package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/tmux-deck/internal/logging"
	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/atomicstack/tmux-deck/internal/message"
	"github.com/atomicstack/tmux-deck/internal/tmux"
	"github.com/atotto/clipboard"
)

// Tmux is the backend protocol driven by the executor.
type Tmux interface {
	ListTree() ([]tmux.Session, error)
	CapturePane(target string) (string, error)
	CapturePlain(target string) (string, error)
	SetBuffer(text string) error
	NewSession(name string) error
	RenameSession(oldName, newName string) error
	KillSession(name string) error
	SendKeys(target, keys string, submit bool) error
	SwitchClient(target string) error
}

var writeClipboard = clipboard.WriteAll

// Executor consumes commands one at a time, in the order they were issued,
// and answers each with at least one response.
type Executor struct {
	tmux      Tmux
	commands  <-chan message.Envelope
	responses chan<- message.Response
}

func NewExecutor(t Tmux, commands <-chan message.Envelope, responses chan<- message.Response) *Executor {
	return &Executor{tmux: t, commands: commands, responses: responses}
}

// Run serves commands until the command channel is closed or ctx is done.
// A tmux call already in flight always completes; its responses are
// dropped if ctx ends meanwhile.
func (e *Executor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case env, ok := <-e.commands:
			if !ok {
				return nil
			}
			e.handle(ctx, env)
		}
	}
}

func (e *Executor) handle(ctx context.Context, env message.Envelope) {
	kind := env.Command.Kind()
	start := time.Now()
	if !env.Issued.IsZero() {
		events.Command.Start(env.ID, kind, start.Sub(env.Issued))
	}
	responses := e.Execute(env.Command)
	events.Command.Result(env.ID, kind, time.Since(start), failure(responses))
	for _, resp := range responses {
		select {
		case e.responses <- resp:
		case <-ctx.Done():
			events.Command.Dropped(env.ID, kind)
			return
		}
	}
}

// Execute runs one command synchronously. Successful session mutations are
// followed by a fresh tree listing.
func (e *Executor) Execute(cmd message.Command) []message.Response {
	switch c := cmd.(type) {
	case message.RefreshAll:
		return []message.Response{e.refresh()}
	case message.CapturePane:
		content, err := e.tmux.CapturePane(c.Target)
		if err != nil {
			return []message.Response{targetError("capture", c.Target, err)}
		}
		return []message.Response{message.PaneCaptured{Target: c.Target, Content: content}}
	case message.NewSession:
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return []message.Response{message.SessionCreated{Name: c.Name, Err: "session name required"}}
		}
		if err := e.tmux.NewSession(name); err != nil {
			return []message.Response{message.SessionCreated{Name: name, Err: err.Error()}}
		}
		return []message.Response{message.SessionCreated{Name: name, Success: true}, e.refresh()}
	case message.RenameSession:
		oldName := strings.TrimSpace(c.OldName)
		newName := strings.TrimSpace(c.NewName)
		result := message.SessionRenamed{OldName: oldName, NewName: newName}
		if oldName == "" || newName == "" {
			result.Err = "session name required"
			return []message.Response{result}
		}
		if err := e.tmux.RenameSession(oldName, newName); err != nil {
			result.Err = err.Error()
			return []message.Response{result}
		}
		result.Success = true
		return []message.Response{result, e.refresh()}
	case message.KillSession:
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return []message.Response{message.SessionKilled{Name: c.Name, Err: "session name required"}}
		}
		if err := e.tmux.KillSession(name); err != nil {
			return []message.Response{message.SessionKilled{Name: name, Err: err.Error()}}
		}
		return []message.Response{message.SessionKilled{Name: name, Success: true}, e.refresh()}
	case message.SendKeys:
		if err := e.tmux.SendKeys(c.Target, c.Keys, c.Submit); err != nil {
			return []message.Response{targetError("send-keys", c.Target, err)}
		}
		return []message.Response{message.KeysSent{Target: c.Target}}
	case message.SwitchClient:
		if err := e.tmux.SwitchClient(c.Target); err != nil {
			return []message.Response{targetError("switch-client", c.Target, err)}
		}
		return []message.Response{message.ClientSwitched{Target: c.Target}}
	case message.CopyPane:
		return []message.Response{e.copyPane(c.Target)}
	default:
		return []message.Response{message.Error{Message: fmt.Sprintf("unsupported command %T", cmd)}}
	}
}

func (e *Executor) refresh() message.Response {
	sessions, err := e.tmux.ListTree()
	if err != nil {
		return message.Error{Message: fmt.Sprintf("refresh: %v", err)}
	}
	if sessions == nil {
		sessions = []tmux.Session{}
	}
	return message.SessionsRefreshed{Sessions: sessions}
}

func (e *Executor) copyPane(target string) message.Response {
	text, err := e.tmux.CapturePlain(target)
	if err != nil {
		return targetError("copy", target, err)
	}
	text = strings.TrimRight(text, "\n")
	if err := e.tmux.SetBuffer(text); err != nil {
		return targetError("copy", target, err)
	}
	// The tmux buffer already holds the text; a missing system clipboard
	// (no xclip, no display) is only logged.
	if err := writeClipboard(text); err != nil {
		logging.Error(fmt.Errorf("clipboard: %w", err))
	}
	return message.PaneCopied{Target: target, Bytes: len(text)}
}

// targetError builds an Error whose message always names the target.
func targetError(verb, target string, err error) message.Error {
	msg := err.Error()
	if !strings.Contains(msg, target) {
		msg = fmt.Sprintf("%s %s: %s", verb, target, msg)
	}
	return message.Error{Message: msg}
}

func failure(responses []message.Response) string {
	for _, r := range responses {
		switch v := r.(type) {
		case message.Error:
			return v.Message
		case message.SessionCreated:
			return v.Err
		case message.SessionRenamed:
			return v.Err
		case message.SessionKilled:
			return v.Err
		}
	}
	return ""
}
