package ui

import (
	"context"
	"errors"
	"time"

	"github.com/atomicstack/tmux-deck/internal/data/dispatcher"
	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/atomicstack/tmux-deck/internal/message"
	"github.com/atomicstack/tmux-deck/internal/state"
	"github.com/atomicstack/tmux-deck/internal/theme"
	"github.com/atomicstack/tmux-deck/internal/ui/command"
	uistate "github.com/atomicstack/tmux-deck/internal/ui/state"
)

// ErrPeerClosed is returned when an inbound channel closes while the
// coordinator still expects traffic on it.
var ErrPeerClosed = errors.New("ui: peer channel closed")

const (
	defaultBannerTimeout = 5 * time.Second
	doubleSpaceWindow    = 300 * time.Millisecond
	defaultWidth         = 80
	defaultHeight        = 24
)

var styles = theme.Default()

// Renderer displays a finished frame.
type Renderer interface {
	Render(frame string)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(frame string)

func (f RendererFunc) Render(frame string) { f(frame) }

type Config struct {
	// Target is the initial selection, session[:window[.pane]].
	Target        string
	BannerTimeout time.Duration
	Width         int
	Height        int
}

// Coordinator owns all presentation state. None of its fields are shared
// with other goroutines; everything arrives over channels.
type Coordinator struct {
	keys      <-chan message.KeyEvent
	responses <-chan message.Response
	events    <-chan message.Event
	bus       *command.Bus
	renderer  Renderer

	tree       *state.Tree
	dispatcher *dispatcher.Dispatcher

	sel       uistate.Selection
	initial   uistate.Selection
	seeded    bool
	focus     uistate.Focus
	view      uistate.View
	mode      uistate.Mode
	banner    uistate.Banner
	bannerTTL time.Duration

	form    *sessionForm
	confirm *killConfirm
	input   *inputForm

	width     int
	height    int
	lastSpace time.Time

	deferred *inbound
	dirty    bool
	quit     bool
	reason   string
	frames   int
	now      func() time.Time
}

type sourceKind int

const (
	fromKeys sourceKind = iota
	fromResponses
	fromEvents
)

type inbound struct {
	source sourceKind
	key    message.KeyEvent
	resp   message.Response
	event  message.Event
	closed bool
}

func New(
	keys <-chan message.KeyEvent,
	responses <-chan message.Response,
	evts <-chan message.Event,
	commands chan<- message.Envelope,
	r Renderer,
	cfg Config,
) *Coordinator {
	tree := state.NewTree()
	ttl := cfg.BannerTimeout
	if ttl <= 0 {
		ttl = defaultBannerTimeout
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	if r == nil {
		r = RendererFunc(func(string) {})
	}
	return &Coordinator{
		keys:       keys,
		responses:  responses,
		events:     evts,
		bus:        command.New(commands),
		renderer:   r,
		tree:       tree,
		dispatcher: dispatcher.New(tree),
		sel:        uistate.None(),
		initial:    uistate.ParseTarget(cfg.Target),
		bannerTTL:  ttl,
		width:      width,
		height:     height,
		now:        time.Now,
	}
}

// Run processes messages until a quit key, ClientSwitched, Shutdown or ctx
// ends the loop. The command channel is closed on return.
func (c *Coordinator) Run(ctx context.Context) error {
	defer c.bus.Close()
	c.render()
	for !c.quit {
		in, err := c.next(ctx)
		if err != nil {
			events.UI.Exit(err.Error())
			return err
		}
		if in == nil {
			events.UI.Exit("context")
			return nil
		}
		if err := c.handle(ctx, *in); err != nil {
			events.UI.Exit(err.Error())
			return err
		}
		if c.banner.Expire(c.now()) {
			c.dirty = true
		}
		if c.dirty {
			c.render()
		}
	}
	events.UI.Exit(c.reason)
	return nil
}

// next returns the highest-priority pending message: keys first, then a
// message deferred in favour of a key, then responses, then events. Only
// when nothing is ready does it block. A nil result means ctx is done.
func (c *Coordinator) next(ctx context.Context) (*inbound, error) {
	if ctx.Err() != nil {
		return nil, nil
	}
	c.flush()

	select {
	case ev, ok := <-c.keys:
		return &inbound{source: fromKeys, key: ev, closed: !ok}, nil
	default:
	}
	if c.deferred != nil {
		in := c.deferred
		c.deferred = nil
		return in, nil
	}
	select {
	case resp, ok := <-c.responses:
		return &inbound{source: fromResponses, resp: resp, closed: !ok}, nil
	default:
	}
	select {
	case ev, ok := <-c.events:
		return &inbound{source: fromEvents, event: ev, closed: !ok}, nil
	default:
	}

	for {
		var in *inbound
		select {
		case <-ctx.Done():
			return nil, nil
		case ev, ok := <-c.keys:
			return &inbound{source: fromKeys, key: ev, closed: !ok}, nil
		case resp, ok := <-c.responses:
			in = &inbound{source: fromResponses, resp: resp, closed: !ok}
		case ev, ok := <-c.events:
			in = &inbound{source: fromEvents, event: ev, closed: !ok}
		case c.bus.Out() <- c.bus.Head():
			c.bus.Sent()
			continue
		}
		return c.preferKey(in), nil
	}
}

// preferKey is called when the blocking wait woke with a non-key message.
// A key that became ready meanwhile is returned instead and in is kept for
// the next iteration.
func (c *Coordinator) preferKey(in *inbound) *inbound {
	select {
	case ev, ok := <-c.keys:
		c.deferred = in
		return &inbound{source: fromKeys, key: ev, closed: !ok}
	default:
		return in
	}
}

// flush hands queued commands to the executor without blocking.
func (c *Coordinator) flush() {
	for c.bus.Len() > 0 {
		select {
		case c.bus.Out() <- c.bus.Head():
			c.bus.Sent()
		default:
			return
		}
	}
}

func (c *Coordinator) handle(ctx context.Context, in inbound) error {
	if in.closed {
		return c.peerClosed(ctx, in.source)
	}
	switch in.source {
	case fromKeys:
		c.handleKeyEvent(in.key)
	case fromResponses:
		c.handleResponse(in.resp)
	case fromEvents:
		c.handleEvent(in.event)
	}
	return nil
}

// peerClosed disables the closed source. Closure during shutdown is
// expected; anything else is an error.
func (c *Coordinator) peerClosed(ctx context.Context, source sourceKind) error {
	switch source {
	case fromKeys:
		c.keys = nil
	case fromResponses:
		c.responses = nil
	case fromEvents:
		c.events = nil
	}
	if ctx.Err() != nil {
		c.quit = true
		c.reason = "context"
		return nil
	}
	return ErrPeerClosed
}

func (c *Coordinator) handleEvent(ev message.Event) {
	switch e := ev.(type) {
	case message.Tick:
		if c.mode.PausesRefresh() {
			events.Refresh.Skip("tick")
			return
		}
		c.bus.Enqueue(message.RefreshAll{})
	case message.RequestCapture:
		if c.mode.PausesRefresh() {
			events.Refresh.Skip("request-capture")
			return
		}
		for _, target := range c.visibleTargets() {
			c.bus.Enqueue(message.CapturePane{Target: target})
		}
	case message.Shutdown:
		c.quit = true
		c.reason = "shutdown: " + e.Reason
	}
}

func (c *Coordinator) setMode(mode uistate.Mode) {
	if c.mode == mode {
		return
	}
	events.UI.Mode(c.mode.String(), mode.String())
	c.mode = mode
	c.dirty = true
}

func (c *Coordinator) setSelection(sel uistate.Selection) {
	if sel == c.sel {
		return
	}
	c.sel = sel
	c.dirty = true
	events.UI.Selection(sel.Session, sel.Window, sel.Pane)
}

func (c *Coordinator) setError(text string) {
	events.UI.Error(text)
	c.banner.Set(text, true, c.now(), c.bannerTTL)
	c.dirty = true
}

// clearError drops an error banner once a later action has succeeded.
func (c *Coordinator) clearError() {
	if c.banner.Error && c.banner.Clear() {
		c.dirty = true
	}
}

func (c *Coordinator) setInfo(text string) {
	c.banner.Set(text, false, c.now(), c.bannerTTL)
	c.dirty = true
}

func (c *Coordinator) render() {
	c.renderer.Render(c.View())
	c.frames++
	c.dirty = false
}

func (c *Coordinator) requestQuit(reason string) {
	c.quit = true
	c.reason = reason
}
