package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/tmux-deck/internal/app"
	"github.com/atomicstack/tmux-deck/internal/config"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Checks) != 3 {
		t.Fatalf("expected 3 descriptor entries, got %d", len(info.Checks))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Checks[i].Name != name {
			t.Fatalf("expected descriptor %d name %q, got %q", i, name, info.Checks[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			SocketPath: "socket-path",
			Target:     "main:1",
			Interval:   300 * time.Millisecond,
			Transport:  "control",
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"socket":   "socket-path",
			"target":   "main:1",
			"interval": "300ms",
		},
		Args: []string{"--socket", "socket-path"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["socket"] != "socket-path" {
		t.Fatalf("expected socket flag %q, got %v", "socket-path", flagsValue["socket"])
	}
	if flagsValue["target"] != "main:1" {
		t.Fatalf("expected target main:1, got %v", flagsValue["target"])
	}
	if flagsValue["interval"] != "300ms" {
		t.Fatalf("expected interval 300ms, got %v", flagsValue["interval"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}

func TestExecuteConfigErrorsExitTwo(t *testing.T) {
	cases := [][]string{
		{"--no-such-flag"},
		{"--interval", "0s"},
		{"--transport", "ssh"},
		{"--config", filepath.Join(t.TempDir(), "missing.toml")},
	}
	for _, args := range cases {
		if code := execute(context.Background(), args); code != 2 {
			t.Fatalf("%v: expected exit 2, got %d", args, code)
		}
	}
}

func TestRootCommandRejectsPositionalArgs(t *testing.T) {
	cmd := newRootCommand(nil, []string{"extra"})
	cmd.SetArgs([]string{"extra"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected positional arguments to be rejected")
	}
}
