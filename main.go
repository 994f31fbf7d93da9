package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atomicstack/tmux-deck/internal/app"
	"github.com/atomicstack/tmux-deck/internal/config"
	"github.com/atomicstack/tmux-deck/internal/logging"
	"github.com/atomicstack/tmux-deck/internal/logging/events"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:]))
}

// execute runs the root command and maps its error to an exit status:
// 2 for configuration problems, 1 for any unit failure.
func execute(ctx context.Context, args []string) int {
	cmd := newRootCommand(os.Environ(), args)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}
	logging.Error(err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func newRootCommand(environ, argv []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tmux-deck",
		Short:         "Browse and manage tmux sessions, windows and panes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runtimeCfg, err := config.FromFlags(cmd.Flags(), environ, argv)
			if err != nil {
				return err
			}
			if err := config.Validate(runtimeCfg); err != nil {
				return err
			}
			logging.Configure(runtimeCfg.Logging.FilePath)
			logging.SetTraceEnabled(runtimeCfg.Logging.Trace)
			defer logging.Close()

			traceStartup(runtimeCfg)
			return app.Run(cmd.Context(), runtimeCfg.App)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.Error{Err: err}
	})
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func traceStartup(cfg config.Config) {
	if !logging.TraceEnabled() {
		return
	}
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Checks   []ttyCheckResult `json:"checks"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyCheckResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	descriptors := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyCheckResult, 0, len(descriptors))
	var detected *ttyDetected
	for _, desc := range descriptors {
		entry := ttyCheckResult{Name: desc.name}
		fd := int(desc.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: desc.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		} else {
			entry.IsTerminal = false
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Checks: results}
}
