package tmux

import (
	"errors"
	"strings"
	"testing"
	"time"

	testutil "github.com/atomicstack/tmux-deck/internal/testutil"
)

func startServer(t *testing.T) (*Client, *testutil.Server) {
	t.Helper()
	srv := testutil.StartServer(t)
	t.Setenv("TMUX_TMPDIR", srv.Dir)
	t.Setenv("TMUX", "")
	client := NewClient(srv.Socket)
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func waitForSession(t *testing.T, client *Client, name string, present bool) []Session {
	t.Helper()
	var sessions []Session
	testutil.WaitFor(t, 2*time.Second, "session "+name, func() bool {
		var err error
		sessions, err = client.ListTree()
		if err != nil {
			return false
		}
		return containsSession(sessions, name) == present
	})
	return sessions
}

func containsSession(sessions []Session, name string) bool {
	for _, s := range sessions {
		if s.Name == name {
			return true
		}
	}
	return false
}

func TestSessionLifecycleIntegration(t *testing.T) {
	client, _ := startServer(t)

	if err := client.NewSession("work"); err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	sessions := waitForSession(t, client, "work", true)
	for _, s := range sessions {
		t.Logf("session %q windows=%d attached=%d", s.Name, len(s.Windows), s.Attached)
	}

	if err := client.NewSession("work"); !errors.Is(err, ErrSessionExists) {
		t.Fatalf("expected duplicate session error, got %v", err)
	}

	if err := client.RenameSession("work", "play"); err != nil {
		t.Fatalf("RenameSession failed: %v", err)
	}
	if err := client.RenameSession("play", "playground"); err != nil {
		t.Fatalf("second RenameSession failed: %v", err)
	}
	sessions = waitForSession(t, client, "playground", true)
	if containsSession(sessions, "work") || containsSession(sessions, "play") {
		t.Fatalf("expected old names to be gone, got %#v", sessions)
	}

	if err := client.RenameSession("missing", "other"); err == nil {
		t.Fatalf("expected rename of missing session to fail")
	}
	if err := client.KillSession("play"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected exact-match kill of prefix to fail, got %v", err)
	}
	if err := client.KillSession("playground"); err != nil {
		t.Fatalf("KillSession failed: %v", err)
	}
	waitForSession(t, client, "playground", false)
}

func TestKillLastSessionIntegration(t *testing.T) {
	client, _ := startServer(t)

	sessions, err := client.ListTree()
	if err != nil {
		t.Fatalf("ListTree failed: %v", err)
	}
	for _, s := range sessions {
		if err := client.KillSession(s.Name); err != nil {
			t.Fatalf("KillSession %s failed: %v", s.Name, err)
		}
	}
	testutil.WaitFor(t, 2*time.Second, "empty tree", func() bool {
		sessions, err = client.ListTree()
		return err == nil && len(sessions) == 0
	})
}

func TestCapturePaneIntegration(t *testing.T) {
	client, srv := startServer(t)

	target := testutil.DefaultSession + ":0.0"
	if _, err := srv.Run("respawn-pane", "-k", "-t", target, "printf 'deck-capture-marker\\n'; sleep 600"); err != nil {
		t.Skipf("skipping: respawn-pane failed: %v", err)
	}
	var out string
	testutil.WaitFor(t, 2*time.Second, "capture marker", func() bool {
		var err error
		out, err = client.CapturePane(target)
		return err == nil && strings.Contains(out, "deck-capture-marker")
	})

	_, err := client.CapturePane("nosuch:0.0")
	if err == nil || !strings.Contains(err.Error(), "nosuch:0.0") {
		t.Fatalf("expected error naming target, got %v", err)
	}
}
