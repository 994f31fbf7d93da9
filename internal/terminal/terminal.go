// Package terminal owns the Bubble Tea program: it puts the terminal in raw
// mode, collects input for the key input source, and paints the frames the
// coordinator renders. It makes no decisions of its own.
package terminal

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/atomicstack/tmux-deck/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultBuffer = 1024

type options struct {
	input     io.Reader
	output    io.Writer
	altScreen bool
	buffer    int
}

type Option func(*options)

// WithIO replaces stdin and stdout, mainly for tests.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) {
		o.input = in
		o.output = out
	}
}

func WithAltScreen(enabled bool) Option {
	return func(o *options) { o.altScreen = enabled }
}

// WithBuffer sets how many input events may wait for Poll.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// Terminal implements input.Poller and ui.Renderer on top of one program.
type Terminal struct {
	program *tea.Program
	input   chan tea.Msg
	dropped atomic.Uint64
}

type frameMsg string

type model struct {
	t     *Terminal
	frame string
}

func New(opts ...Option) *Terminal {
	cfg := options{altScreen: true, buffer: defaultBuffer}
	for _, opt := range opts {
		opt(&cfg)
	}
	t := &Terminal{input: make(chan tea.Msg, cfg.buffer)}
	progOpts := []tea.ProgramOption{tea.WithoutSignalHandler()}
	if cfg.altScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	if cfg.input != nil {
		progOpts = append(progOpts, tea.WithInput(cfg.input))
	}
	if cfg.output != nil {
		progOpts = append(progOpts, tea.WithOutput(cfg.output))
	}
	t.program = tea.NewProgram(&model{t: t}, progOpts...)
	return t
}

// Run blocks until Quit is called or the program fails.
func (t *Terminal) Run() error {
	_, err := t.program.Run()
	if t.dropped.Load() > 0 {
		logging.Info("terminal: dropped %d input events", t.dropped.Load())
	}
	return err
}

// Poll waits up to timeout for the next key or resize.
func (t *Terminal) Poll(timeout time.Duration) (tea.Msg, bool) {
	select {
	case msg := <-t.input:
		return msg, true
	default:
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case msg := <-t.input:
		return msg, true
	case <-timer.C:
		return nil, false
	}
}

// Render replaces the frame on screen.
func (t *Terminal) Render(frame string) {
	t.program.Send(frameMsg(frame))
}

func (t *Terminal) Quit() {
	t.program.Quit()
}

// offer never blocks the Bubble Tea event loop; input that cannot be
// buffered is counted and discarded.
func (t *Terminal) offer(msg tea.Msg) {
	select {
	case t.input <- msg:
	default:
		t.dropped.Add(1)
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = string(msg)
	case tea.KeyMsg, tea.WindowSizeMsg:
		m.t.offer(msg)
	}
	return m, nil
}

func (m *model) View() string {
	return m.frame
}
