// Package loggingtest provides loggers for tests.
package loggingtest

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"repotoggle/internal/logging"
)

// New returns a logger that writes through t.Log
func New(t testing.TB) logging.Logger {
	return logging.FromZap(zaptest.NewLogger(t))
}

// Observed returns a logger that records every entry at debug level and above
func Observed() (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.FromZap(zap.New(core)), logs
}
