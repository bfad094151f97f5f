// Package app wires configuration, logging and the backend client for both binaries.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"repotoggle/internal/api"
	"repotoggle/internal/config"
	"repotoggle/internal/eventbus"
	"repotoggle/internal/logging"
)

// Flags are the settings shared by the TUI and the CLI
type Flags struct {
	ConfigPath string
	DotEnv     string
	BaseURL    string
	Timeout    time.Duration
	LogLevel   string
	LogFile    string
}

// Register adds the shared flags to fs
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	fs.StringVar(&f.DotEnv, "env-file", ".env", "dotenv file with REPOTOGGLE_* overrides")
	fs.StringVarP(&f.BaseURL, "url", "u", "", "backend base URL, e.g. http://localhost:8080")
	fs.DurationVar(&f.Timeout, "timeout", 0, "per-request timeout")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.LogFile, "log-file", "", "log file; \"-\" logs to stderr (CLI only)")
}

// Setup is the loaded configuration plus the services built from it
type Setup struct {
	Config        *config.Config
	ConfigService config.ConfigService
	Log           logging.Logger
	Client        *api.Client
}

// Load reads the config file, then the environment (.env first), then the flags.
// Each layer overrides the previous one.
func Load(f Flags, bus eventbus.EventBus) (*config.Config, config.ConfigService, error) {
	var svc config.ConfigService
	if bus != nil {
		svc = config.NewConfigServiceWithBus(f.ConfigPath, bus)
	} else {
		svc = config.NewConfigService(f.ConfigPath)
	}

	cfg, err := svc.Load()
	if err != nil {
		return nil, nil, err
	}

	env, err := config.ReadEnv(f.DotEnv)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, nil, err
	}

	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.Timeout > 0 {
		cfg.HTTP.Timeout = config.Duration(f.Timeout)
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if cfg.Log.File == "-" {
		cfg.Log.File = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, svc, nil
}

// NewClient builds the backend client described by cfg
func NewClient(cfg *config.Config, log logging.Logger) (*api.Client, error) {
	return api.New(cfg.BaseURL,
		api.WithTimeout(cfg.HTTP.Timeout.Std()),
		api.WithRetry(cfg.Load.Attempts, cfg.Load.RetryDelay.Std()),
		api.WithUserAgent(cfg.UserAgent),
		api.WithLogger(log),
	)
}

// ErrStderrLog is returned by NewTUI when logs would land on the terminal the UI draws on
var ErrStderrLog = errors.New("the terminal UI cannot log to stderr: set --log-file or log.file to a path")

// New loads configuration and builds the logger and client
func New(f Flags, bus eventbus.EventBus) (*Setup, error) {
	cfg, svc, err := Load(f, bus)
	if err != nil {
		return nil, err
	}
	return newSetup(cfg, svc)
}

// NewTUI is New for the terminal UI. Stderr logging is refused, and the
// returned bus logs through the configured logger. The config service
// publishes on that bus.
func NewTUI(f Flags) (*Setup, eventbus.EventBus, error) {
	cfg, svc, err := Load(f, nil)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Log.File == "" {
		return nil, nil, ErrStderrLog
	}
	s, err := newSetup(cfg, svc)
	if err != nil {
		return nil, nil, err
	}
	bus := eventbus.New(s.Log)
	s.ConfigService = config.NewConfigServiceWithBus(svc.Path(), bus)
	return s, bus, nil
}

func newSetup(cfg *config.Config, svc config.ConfigService) (*Setup, error) {
	log, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}
	client, err := NewClient(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Setup{Config: cfg, ConfigService: svc, Log: log, Client: client}, nil
}
