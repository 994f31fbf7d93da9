package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withLogFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "deck.log")
	Configure(path)
	t.Cleanup(func() {
		SetTraceEnabled(false)
		Configure("")
	})
	return path
}

func TestTraceWritesJSONLinesWhenEnabled(t *testing.T) {
	path := withLogFile(t)
	Trace("ignored", nil)
	SetTraceEnabled(true)
	Trace("command.start", map[string]interface{}{"kind": "refresh-all"})
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one trace line, got %d: %q", len(lines), data)
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if entry.Event != "command.start" || entry.Payload["kind"] != "refresh-all" {
		t.Fatalf("unexpected entry %#v", entry)
	}
}

func TestErrorAppendsToLog(t *testing.T) {
	path := withLogFile(t)
	Error(nil)
	Error(errors.New("backend exploded"))
	Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "error: backend exploded") {
		t.Fatalf("expected error line, got %q", data)
	}
}
