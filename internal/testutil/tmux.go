package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

var ErrPaneUnavailable = errors.New("tmux pane unavailable")

// DefaultSession is the session every Server starts with.
const DefaultSession = "tmux-deck-test"

// Server is a throwaway tmux server on its own socket. It is torn down by
// t.Cleanup, after which its server logs are checked for crashes.
type Server struct {
	Socket string
	Dir    string
	t      *testing.T
}

// RequireTmux skips the calling test when tmux is not on PATH.
func RequireTmux(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("tmux")
	if err != nil {
		t.Skip("skipping: tmux binary not available")
	}
	return path
}

// StartServer boots a server holding DefaultSession plus any extra named
// sessions.
func StartServer(t *testing.T, sessions ...string) *Server {
	t.Helper()
	RequireTmux(t)
	dir, err := os.MkdirTemp("/tmp", "tmux-deck-*")
	if err != nil {
		t.Fatalf("failed to create tmux temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	s := &Server{Socket: filepath.Join(dir, "tmux-test.sock"), Dir: dir, t: t}

	boot := s.Command("-f", "/dev/null", "-vv", "new-session", "-d", "-s", DefaultSession, "sleep", "600")
	boot.Dir = dir
	if err := boot.Run(); err != nil {
		t.Skipf("skipping: failed to start tmux server: %v", err)
	}
	t.Cleanup(s.stop)
	if pid, err := s.Run("display-message", "-p", "#{pid}"); err == nil && pid != "" {
		t.Logf("started tmux test server pid=%s socket=%s", pid, s.Socket)
	}
	for _, name := range sessions {
		if _, err := s.Run("new-session", "-d", "-s", name, "sleep", "600"); err != nil {
			t.Fatalf("failed to create session %s: %v", name, err)
		}
	}
	return s
}

// Command builds a tmux invocation against the server with TMUX cleared so
// an enclosing tmux never receives it.
func (s *Server) Command(args ...string) *exec.Cmd {
	cmd := exec.Command("tmux", append([]string{"-S", s.Socket}, args...)...)
	env := make([]string, 0, len(os.Environ())+2)
	for _, entry := range os.Environ() {
		if strings.HasPrefix(entry, "TMUX=") {
			continue
		}
		env = append(env, entry)
	}
	cmd.Env = append(env, "TMUX=", "TMUX_TMPDIR="+s.Dir)
	return cmd
}

// Run executes a tmux command and returns its trimmed stdout.
func (s *Server) Run(args ...string) (string, error) {
	out, err := s.Command(args...).Output()
	return strings.TrimSpace(string(out)), err
}

// Capture returns the rendered contents of target, escape sequences
// included.
func (s *Server) Capture(target string) (string, error) {
	out, err := s.Command("capture-pane", "-e", "-p", "-t", target).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", ErrPaneUnavailable
		}
		return "", fmt.Errorf("capture-pane %s: %w", target, err)
	}
	return string(out), nil
}

func (s *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := killServer(ctx, s.Socket); err != nil {
		s.t.Logf("control-mode kill failed for %s: %v; using kill-server", s.Socket, err)
		_ = s.Command("kill-server").Run()
	}
	s.checkNoCrash()
}

// checkNoCrash scans the -vv server logs for an unexpected exit.
func (s *Server) checkNoCrash() {
	files, err := filepath.Glob(filepath.Join(s.Dir, "tmux-server-*.log"))
	if err != nil || len(files) == 0 {
		return
	}
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			s.t.Errorf("failed to read tmux server log %s: %v", path, err)
			continue
		}
		if bytes.Contains(content, []byte("server exited unexpectedly")) {
			s.t.Errorf("tmux server reported unexpected exit; see %s", path)
		}
	}
}

func killServer(ctx context.Context, socket string) error {
	client, err := gotmux.NewTmuxWithOptions(socket, gotmux.WithContext(ctx))
	if err != nil {
		return err
	}
	defer client.Close()
	return client.KillServer()
}

// WaitFor polls cond every 25ms until it holds or timeout elapses.
func WaitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("timed out after %s waiting for %s", timeout, what)
}
