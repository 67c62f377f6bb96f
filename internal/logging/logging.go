// Package logging builds the structured logger used across sirsim.
//
// Loggers are [logr.Logger] values backed by zap. Verbosity follows logr
// conventions: V(DEBUG) and V(TRACE) records are emitted only when the
// configured level allows them.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V().
const (
	DEBUG = 1
	TRACE = 2
)

// ParseLevel maps a level name to a zap level. "trace" sits one step below
// zap's debug level so V(TRACE) records become visible.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zapcore.Level(-TRACE), nil
	case "", "info":
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return lvl, nil
}

// NewLogger returns a console-encoded logger writing to w.
func NewLogger(level string, w io.Writer) (logr.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)
	return zapr.NewLogger(zap.New(core)), nil
}

// NewTestLogger returns a logger with every verbosity enabled.
func NewTestLogger(w io.Writer) logr.Logger {
	logger, _ := NewLogger("trace", w)
	return logger
}
