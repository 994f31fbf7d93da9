package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "tmux-deck.log"

// Several units log concurrently, so the file handle and the stdlib logger
// writing to it are shared behind one mutex.
var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	file         *os.File
	logger       *log.Logger
)

// Error appends err to the log file.
func Error(err error) {
	if err == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	l := openLocked()
	if l == nil {
		return
	}
	l.Println("error:", err)
}

// Info appends a formatted line to the log file.
func Info(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	l := openLocked()
	if l == nil {
		return
	}
	l.Printf(format, args...)
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if !traceEnabled {
		return
	}
	entry := struct {
		Time    time.Time   `json:"time"`
		Event   string      `json:"event"`
		Payload interface{} `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		Event:   event,
		Payload: payload,
	}
	if openLocked() == nil {
		return
	}
	if err := json.NewEncoder(file).Encode(entry); err != nil {
		fmt.Fprintf(os.Stderr, "trace encoding failed: %v\n", err)
	}
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// Close releases the log file. Later writes reopen it.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func openLocked() *log.Logger {
	if logger != nil {
		return logger
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return nil
	}
	file = f
	logger = log.New(f, "", log.LstdFlags)
	return logger
}

func closeLocked() {
	if file != nil {
		_ = file.Close()
	}
	file = nil
	logger = nil
}
