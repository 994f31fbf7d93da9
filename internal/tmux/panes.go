package tmux

import (
	"fmt"
	"strings"
)

// CapturePane returns the visible contents of target with escape sequences
// preserved and wrapped lines joined.
func (c *Client) CapturePane(target string) (string, error) {
	return c.capture(target, "-e", "-p", "-J")
}

// CapturePlain returns the visible contents of target as plain text.
func (c *Client) CapturePlain(target string) (string, error) {
	return c.capture(target, "-p", "-J")
}

func (c *Client) capture(target string, flags ...string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("pane target required")
	}
	args := append([]string{"capture-pane"}, flags...)
	args = append(args, "-t", target)
	var out string
	err := c.withControl(func(client tmuxClient) error {
		var err error
		out, err = client.Command(args...)
		return err
	})
	if err != nil {
		out, err = c.run(args...)
		if err != nil {
			return "", fmt.Errorf("capture-pane %s: %w", target, err)
		}
	}
	return out, nil
}

// SendKeys types keys literally into target, followed by Enter when submit
// is set.
func (c *Client) SendKeys(target, keys string, submit bool) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("pane target required")
	}
	if keys != "" {
		if _, err := c.run("send-keys", "-t", target, "-l", "--", keys); err != nil {
			return fmt.Errorf("send-keys %s: %w", target, err)
		}
	}
	if submit {
		if _, err := c.run("send-keys", "-t", target, "Enter"); err != nil {
			return fmt.Errorf("send-keys %s: %w", target, err)
		}
	}
	return nil
}

// SetBuffer stores text in the tmux paste buffer.
func (c *Client) SetBuffer(text string) error {
	_, err := c.run("set-buffer", "--", text)
	return err
}
