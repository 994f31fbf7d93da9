package tmux

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
	"github.com/atomicstack/tmux-deck/internal/logging"
)

// Transport selects how reads reach tmux.
type Transport string

const (
	// TransportControl keeps one control-mode connection for listings and
	// captures, falling back to exec when it is unavailable.
	TransportControl Transport = "control"
	// TransportExec runs one tmux process per call.
	TransportExec Transport = "exec"
)

const defaultTimeout = 5 * time.Second

// Client talks to a single tmux server. It is not meant to be shared: the
// backend executor is its only caller.
type Client struct {
	socketPath string
	transport  Transport
	timeout    time.Duration

	mu   sync.Mutex
	conn tmuxClient
}

type Option func(*Client)

func WithTransport(t Transport) Option {
	return func(c *Client) {
		if t != "" {
			c.transport = t
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewClient(socketPath string, opts ...Option) *Client {
	c := &Client{
		socketPath: strings.TrimSpace(socketPath),
		transport:  TransportControl,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SocketPath() string {
	return c.socketPath
}

// Close drops the cached control-mode connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// withControl runs fn against the cached control-mode connection, dialing
// it on first use. A transport failure drops the connection so the next
// call reconnects; an error reported by tmux for the command keeps it. errControlUnavailable is returned when no connection could
// be made.
func (c *Client) withControl(fn func(tmuxClient) error) error {
	if c.transport != TransportControl {
		return errControlUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		// The control client attaches to an existing session; never dial
		// an empty server.
		if _, err := c.runLines("list-sessions", "-F", "#{session_name}"); err != nil {
			return fmt.Errorf("%w: %v", errControlUnavailable, err)
		}
		conn, err := newTmux(c.socketPath)
		if err != nil {
			logging.Error(fmt.Errorf("control-mode connect %s: %w", c.socketPath, err))
			return fmt.Errorf("%w: %v", errControlUnavailable, err)
		}
		c.conn = conn
	}
	if err := fn(c.conn); err != nil {
		if transportFailed(err) {
			_ = c.conn.Close()
			c.conn = nil
		}
		return err
	}
	return nil
}

// transportFailed reports whether err means the control connection itself
// is gone rather than tmux rejecting one command.
func transportFailed(err error) bool {
	if errors.Is(err, gotmux.ErrTransportClosed) || errors.Is(err, gotmux.ErrServerExit) {
		return true
	}
	return strings.Contains(err.Error(), "router closed")
}
