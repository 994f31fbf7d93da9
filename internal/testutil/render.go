package testutil

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// BuildBinary compiles the tmux-deck binary into a temporary directory.
func BuildBinary(t *testing.T) string {
	t.Helper()
	RequireTmux(t)
	tdir := t.TempDir()
	bin := filepath.Join(tdir, "tmux-deck")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = repoRoot(t)
	cmd.Env = append(os.Environ(), "GOCACHE="+filepath.Join(tdir, ".gocache"))
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return bin
}

// WaitForText polls the pane until its capture contains want. A non-zero
// exit code written to exitPath aborts the wait.
func (s *Server) WaitForText(ctx context.Context, target, exitPath, want string) string {
	t := s.t
	t.Helper()
	loggedPaneMissing := false
	for {
		select {
		case <-ctx.Done():
			last, _ := s.Capture(target)
			t.Fatalf("timeout waiting for %q: %v\nlast capture:\n%s", want, ctx.Err(), last)
		case <-time.After(50 * time.Millisecond):
			if exitPath != "" {
				if data, err := os.ReadFile(exitPath); err == nil {
					code := strings.TrimSpace(string(data))
					if code != "" && code != "0" {
						t.Fatalf("tmux-deck exited early with code %s", code)
					}
				}
			}
			out, err := s.Capture(target)
			if err != nil {
				if errors.Is(err, ErrPaneUnavailable) {
					if !loggedPaneMissing {
						t.Logf("waiting for pane %s to become available", target)
						loggedPaneMissing = true
					}
					continue
				}
				t.Fatalf("capture-pane error: %v", err)
			}
			if strings.Contains(out, want) {
				return out
			}
		}
	}
}

func repoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

// launcherScript runs bin against socket, records its exit status in
// exitPath and keeps the pane alive afterwards.
func launcherScript(bin, socket, logPath, exitPath string) string {
	return "#!/bin/sh\n" +
		shellQuote(bin) + " --socket " + shellQuote(socket) + " --log-file " + shellQuote(logPath) + "\n" +
		"printf '%s' $? > " + shellQuote(exitPath) + "\n" +
		"sleep 300\n"
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
