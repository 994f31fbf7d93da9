package tmux

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoServer        = errors.New("no tmux server running")
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")

	errControlUnavailable = errors.New("control-mode connection unavailable")
)

func baseArgs(socketPath string) []string {
	if strings.TrimSpace(socketPath) == "" {
		return []string{}
	}
	return []string{"-S", socketPath}
}

// run invokes the tmux binary and returns stdout. A non-zero exit is always
// an error carrying the command's stderr.
func (c *Client) run(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	full := append(baseArgs(c.socketPath), args...)
	stdout, stderr, err := runExecCommand(ctx, "tmux", full...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("tmux %s: timed out after %s", args[0], c.timeout)
		}
		return "", wrapError(err, stderr, args)
	}
	return stdout, nil
}

// runLines is run split into non-empty lines.
func (c *Client) runLines(args ...string) ([]string, error) {
	out, err := c.run(args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func wrapError(err error, stderr string, args []string) error {
	stderr = strings.TrimSpace(stderr)
	verb := "command"
	if len(args) > 0 {
		verb = args[0]
	}
	switch {
	case strings.Contains(stderr, "no server running"),
		strings.Contains(stderr, "error connecting to"),
		strings.Contains(stderr, "server exited unexpectedly"):
		return fmt.Errorf("tmux %s: %w", verb, ErrNoServer)
	case strings.Contains(stderr, "duplicate session"):
		return fmt.Errorf("tmux %s: %w (%s)", verb, ErrSessionExists, stderr)
	case strings.Contains(stderr, "can't find session"),
		strings.Contains(stderr, "session not found"):
		return fmt.Errorf("tmux %s: %w (%s)", verb, ErrSessionNotFound, stderr)
	}
	if stderr != "" {
		return fmt.Errorf("tmux %s: %s", verb, stderr)
	}
	return fmt.Errorf("tmux %s: %w", verb, err)
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
