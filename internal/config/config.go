package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/atomicstack/tmux-deck/internal/app"
	"github.com/atomicstack/tmux-deck/internal/tmux"
	"github.com/spf13/pflag"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the config file that was read, empty when none was found.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// Error marks a configuration problem. The entrypoint exits with status 2
// for these.
type Error struct {
	Err error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func configError(format string, args ...interface{}) error {
	return &Error{Err: fmt.Errorf(format, args...)}
}

const (
	envConfig          = "TMUX_DECK_CONFIG"
	envTarget          = "TMUX_DECK_TARGET"
	envInterval        = "TMUX_DECK_INTERVAL"
	envCaptureInterval = "TMUX_DECK_CAPTURE_INTERVAL"
	envSocketPath      = "TMUX_DECK_SOCKET"
	envTransport       = "TMUX_DECK_TRANSPORT"
	envTimeout         = "TMUX_DECK_TIMEOUT"
	envTrace           = "TMUX_DECK_TRACE"
	envLogFile         = "TMUX_DECK_LOG_FILE"
)

const (
	DefaultInterval = 300 * time.Millisecond
	DefaultTimeout  = 5 * time.Second
)

// fileConfig mirrors config.toml. Pointers distinguish unset keys.
type fileConfig struct {
	Target          *string   `toml:"target"`
	Interval        *duration `toml:"interval"`
	CaptureInterval *duration `toml:"capture_interval"`
	Socket          *string   `toml:"socket"`
	Transport       *string   `toml:"transport"`
	Timeout         *duration `toml:"timeout"`
	Trace           *bool     `toml:"trace"`
	LogFile         *string   `toml:"log_file"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// RegisterFlags adds the command-line flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config.toml (default ~/.config/tmux-deck/config.toml)")
	fs.String("target", "", "initial selection as session[:window[.pane]]")
	fs.Duration("interval", DefaultInterval, "tree refresh interval")
	fs.Duration("capture-interval", 0, "pane capture interval (0 reuses --interval)")
	fs.String("socket", "", "path to the tmux socket (overrides environment detection)")
	fs.String("transport", string(tmux.TransportControl), "tmux transport for reads: control or exec")
	fs.Duration("timeout", DefaultTimeout, "timeout for a single tmux call")
	fs.Bool("trace", false, "enable verbose JSON trace logging")
	fs.String("log-file", "", "path to the log file")
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("tmux-deck", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, &Error{Err: err}
	}
	return FromFlags(fs, environ, args)
}

// FromFlags builds the configuration from an already parsed flag set.
// Precedence is flags, then environment, then the config file, then
// defaults.
func FromFlags(fs *pflag.FlagSet, environ []string, args []string) (Config, error) {
	env := parseEnv(environ)
	cfg := Config{
		App: app.Config{
			Interval:  DefaultInterval,
			Transport: tmux.TransportControl,
			Timeout:   DefaultTimeout,
		},
		Args: append([]string(nil), args...),
	}

	path, explicit := configPath(fs, env)
	if path != "" {
		found, err := loadFile(path, explicit, &cfg)
		if err != nil {
			return Config{}, err
		}
		if found {
			cfg.File = path
		}
	}

	if err := applyEnv(env, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyFlags(fs, &cfg); err != nil {
		return Config{}, err
	}

	cfg.Flags = map[string]string{
		"config":          cfg.File,
		"target":          cfg.App.Target,
		"interval":        cfg.App.Interval.String(),
		"captureInterval": cfg.App.CaptureInterval.String(),
		"socket":          cfg.App.SocketPath,
		"transport":       string(cfg.App.Transport),
		"timeout":         cfg.App.Timeout.String(),
	}
	return cfg, nil
}

func configPath(fs *pflag.FlagSet, env map[string]string) (string, bool) {
	if f := fs.Lookup("config"); f != nil && f.Changed {
		return f.Value.String(), true
	}
	if v := strings.TrimSpace(env[envConfig]); v != "" {
		return v, true
	}
	if dir := strings.TrimSpace(env["XDG_CONFIG_HOME"]); dir != "" {
		return filepath.Join(dir, "tmux-deck", "config.toml"), false
	}
	if home := strings.TrimSpace(env["HOME"]); home != "" {
		return filepath.Join(home, ".config", "tmux-deck", "config.toml"), false
	}
	return "", false
}

// loadFile applies path onto cfg. A missing default file is not an error;
// a missing file that was asked for is.
func loadFile(path string, explicit bool, cfg *Config) (bool, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, configError("config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return false, configError("config file %s: unknown key %q", path, undecoded[0].String())
	}
	if fc.Target != nil {
		cfg.App.Target = *fc.Target
	}
	if fc.Interval != nil {
		cfg.App.Interval = fc.Interval.Duration
	}
	if fc.CaptureInterval != nil {
		cfg.App.CaptureInterval = fc.CaptureInterval.Duration
	}
	if fc.Socket != nil {
		cfg.App.SocketPath = *fc.Socket
	}
	if fc.Transport != nil {
		cfg.App.Transport = tmux.Transport(*fc.Transport)
	}
	if fc.Timeout != nil {
		cfg.App.Timeout = fc.Timeout.Duration
	}
	if fc.Trace != nil {
		cfg.Logging.Trace = *fc.Trace
	}
	if fc.LogFile != nil {
		cfg.Logging.FilePath = *fc.LogFile
	}
	return true, nil
}

func applyEnv(env map[string]string, cfg *Config) error {
	if v, ok := env[envTarget]; ok {
		cfg.App.Target = v
	}
	if v, ok := env[envSocketPath]; ok {
		cfg.App.SocketPath = v
	}
	if v, ok := env[envTransport]; ok && strings.TrimSpace(v) != "" {
		cfg.App.Transport = tmux.Transport(strings.TrimSpace(v))
	}
	if v, ok := env[envLogFile]; ok {
		cfg.Logging.FilePath = v
	}
	cfg.Logging.Trace = envOrBool(env, envTrace, cfg.Logging.Trace)
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{envInterval, &cfg.App.Interval},
		{envCaptureInterval, &cfg.App.CaptureInterval},
		{envTimeout, &cfg.App.Timeout},
	}
	for _, d := range durations {
		v, ok := env[d.key]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return configError("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

func applyFlags(fs *pflag.FlagSet, cfg *Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "target":
			cfg.App.Target = f.Value.String()
		case "socket":
			cfg.App.SocketPath = f.Value.String()
		case "transport":
			cfg.App.Transport = tmux.Transport(f.Value.String())
		case "log-file":
			cfg.Logging.FilePath = f.Value.String()
		case "trace":
			cfg.Logging.Trace, err = fs.GetBool("trace")
		case "interval":
			cfg.App.Interval, err = fs.GetDuration("interval")
		case "capture-interval":
			cfg.App.CaptureInterval, err = fs.GetDuration("capture-interval")
		case "timeout":
			cfg.App.Timeout, err = fs.GetDuration("timeout")
		}
	})
	if err != nil {
		return &Error{Err: err}
	}
	return nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if cfg.App.Interval <= 0 {
		return configError("interval must be > 0 (got %s)", cfg.App.Interval)
	}
	if cfg.App.CaptureInterval < 0 {
		return configError("capture-interval must be >= 0 (got %s)", cfg.App.CaptureInterval)
	}
	if cfg.App.Timeout <= 0 {
		return configError("timeout must be > 0 (got %s)", cfg.App.Timeout)
	}
	switch cfg.App.Transport {
	case tmux.TransportControl, tmux.TransportExec:
	default:
		return configError("transport must be %q or %q (got %q)", tmux.TransportControl, tmux.TransportExec, cfg.App.Transport)
	}
	if strings.HasPrefix(cfg.App.Target, ":") {
		return configError("target %q has no session name", cfg.App.Target)
	}
	return nil
}
