// Package logging wraps zap behind the small interface the rest of repotoggle logs through.
//
// The TUI owns stdout, so it logs to a file; the headless CLI logs to stderr.
// Test loggers live in loggingtest.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger used across repotoggle
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)

	// Named returns a child logger with name appended to the logger name
	Named(name string) Logger
	// With returns a child logger carrying the given fields
	With(keysAndValues ...any) Logger

	Sync() error
}

// Config selects where logs go and how verbose they are
type Config struct {
	Level string // debug, info, warn, error
	File  string // empty means stderr
}

type sugared struct {
	*zap.SugaredLogger
}

func (s sugared) Named(name string) Logger {
	return sugared{s.SugaredLogger.Named(name)}
}

func (s sugared) With(keysAndValues ...any) Logger {
	return sugared{s.SugaredLogger.With(keysAndValues...)}
}

// New builds a logger from cfg
func New(cfg Config) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.DisableStacktrace = true
	zcfg.Sampling = nil

	out := "stderr"
	if cfg.File != "" {
		out = cfg.File
	}
	zcfg.OutputPaths = []string{out}
	zcfg.ErrorOutputPaths = []string{out}

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return sugared{l.Sugar()}, nil
}

// ParseLevel accepts the level names used in the config file; empty means info
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// FromZap adapts an existing zap logger, e.g. one built on an observer core in tests
func FromZap(l *zap.Logger) Logger {
	return sugared{l.Sugar()}
}

// Nop returns a logger that discards everything
func Nop() Logger {
	return sugared{zap.NewNop().Sugar()}
}
