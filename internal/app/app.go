// Package app wires the five units together and supervises them until the
// coordinator ends or one of them fails.
package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/atomicstack/tmux-deck/internal/backend"
	"github.com/atomicstack/tmux-deck/internal/input"
	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/atomicstack/tmux-deck/internal/message"
	"github.com/atomicstack/tmux-deck/internal/scheduler"
	"github.com/atomicstack/tmux-deck/internal/terminal"
	"github.com/atomicstack/tmux-deck/internal/tmux"
	"github.com/atomicstack/tmux-deck/internal/ui"
	"golang.org/x/sync/errgroup"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath      string
	Target          string
	Interval        time.Duration
	CaptureInterval time.Duration
	Transport       tmux.Transport
	Timeout         time.Duration
}

const (
	commandBuffer  = 32
	responseBuffer = 32
	eventBuffer    = 32
	keyBuffer      = 64
)

// Screen is the terminal as seen by the other units.
type Screen interface {
	input.Poller
	ui.Renderer
	Run() error
	Quit()
}

var (
	newScreen = func() Screen { return terminal.New() }
	newTmux   = func(socketPath string, cfg Config) (backend.Tmux, func() error) {
		client := tmux.NewClient(socketPath, tmux.WithTransport(cfg.Transport), tmux.WithTimeout(cfg.Timeout))
		return client, client.Close
	}
	shutdownSignal = func() (<-chan struct{}, func()) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		return ctx.Done(), stop
	}
)

// Run resolves the tmux server, starts every unit and returns once all of
// them have exited. The error is the first unit error, if any.
func Run(ctx context.Context, cfg Config) error {
	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	client, closeClient := newTmux(socketPath, cfg)
	defer func() {
		_ = closeClient()
	}()
	shutdown, stop := shutdownSignal()
	defer stop()

	err = run(ctx, cfg, client, newScreen(), shutdown)
	events.App.Stop(err)
	return err
}

func run(ctx context.Context, cfg Config, client backend.Tmux, screen Screen, shutdown <-chan struct{}) error {
	commands := make(chan message.Envelope, commandBuffer)
	responses := make(chan message.Response, responseBuffer)
	evts := make(chan message.Event, eventBuffer)

	g, gctx := errgroup.WithContext(ctx)
	unitCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	exec := backend.NewExecutor(client, commands, responses)
	sched := scheduler.New(cfg.Interval, cfg.CaptureInterval, evts)
	source := input.NewSource(screen, input.DefaultInterval, keyBuffer)
	coord := ui.New(source.Events(), responses, evts, commands, screen, ui.Config{Target: cfg.Target})

	unit := func(name string, fn func() error) {
		g.Go(func() error {
			err := fn()
			events.App.UnitExit(name, err)
			return err
		})
	}

	unit("terminal", func() error {
		defer cancel()
		return screen.Run()
	})
	unit("executor", func() error {
		defer close(responses)
		return exec.Run(unitCtx)
	})
	unit("scheduler", func() error {
		defer close(evts)
		return sched.Run(unitCtx, shutdown)
	})
	unit("input", func() error {
		return source.Run(unitCtx)
	})
	unit("coordinator", func() error {
		defer cancel()
		defer screen.Quit()
		return coord.Run(unitCtx)
	})

	return g.Wait()
}
