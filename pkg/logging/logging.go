// Package logging builds the zap logger injected into the batch driver. The
// core algorithms take no logger at all; progress reporting is an explicit
// dependency of the driver, never package-global state.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production-configured logger. Quiet mode raises the level so
// only errors reach the output.
func New(quiet bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if quiet {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}
	return cfg.Build()
}

// Nop returns a logger that discards everything. Handy default for library
// callers and tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}
