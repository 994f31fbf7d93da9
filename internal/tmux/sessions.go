package tmux

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// NewSession creates a detached session. tmux rejects duplicate names.
func (c *Client) NewSession(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("session name required")
	}
	_, err := c.run("new-session", "-d", "-s", name)
	return err
}

// RenameSession renames an existing session. Both the source lookup and the
// collision check use exact names.
func (c *Client) RenameSession(oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" {
		return fmt.Errorf("session target required")
	}
	if newName == "" {
		return fmt.Errorf("session name required")
	}
	if oldName == newName {
		return nil
	}
	if _, err := c.run("has-session", "-t", exactSession(newName)); err == nil {
		return fmt.Errorf("tmux rename-session: %w (duplicate session: %s)", ErrSessionExists, newName)
	}
	_, err := c.run("rename-session", "-t", exactSession(oldName), newName)
	return err
}

// KillSession destroys a session. Killing the last one is allowed; the
// server then exits.
func (c *Client) KillSession(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("session target required")
	}
	_, err := c.run("kill-session", "-t", exactSession(name))
	return err
}

// SwitchClient moves the client that launched this process to target.
func (c *Client) SwitchClient(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("switch target required")
	}
	_, err := c.run("switch-client", "-t", target)
	return err
}

func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv("TMUX_DECK_SOCKET"); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}
