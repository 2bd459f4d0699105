package logger

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv enables debug output on loggers created with NewEnvLogger.
const DebugEnv = "BCOM_DEBUG"

// zapLogger adapts a zap SugaredLogger to the Logger interface.
type zapLogger struct {
	prefix string
	sugar  *zap.SugaredLogger
}

// toZapLevel converts a textual level to a zapcore.Level. Unknown strings map to info.
func toZapLevel(level string) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// newConsoleCore builds a zapcore.Core with a console encoder targeting w.
func newConsoleCore(w io.Writer, level zapcore.Level) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewConsoleEncoder(cfg)
	ws := zapcore.Lock(zapcore.AddSync(w))
	return zapcore.NewCore(encoder, ws, zap.NewAtomicLevelAt(level))
}

// New creates a zap-backed logger writing console-formatted lines to w.
// The prefix is prepended to all log messages (e.g., "[poll]" or "[shell]").
func New(prefix string, w io.Writer, level string) Logger {
	return &zapLogger{
		prefix: prefix,
		sugar:  zap.New(newConsoleCore(w, toZapLevel(level))).Sugar(),
	}
}

// NewEnvLogger creates a stderr logger that respects the BCOM_DEBUG environment variable.
func NewEnvLogger(prefix string) Logger {
	level := InfoLevel
	if os.Getenv(DebugEnv) != "" {
		level = DebugLevel
	}
	return New(prefix, os.Stderr, level)
}

// OpenFile creates a logger appending to the file at path. The TUI owns the
// terminal, so the dashboard logs here instead of stderr.
func OpenFile(path, level string) (Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	if os.Getenv(DebugEnv) != "" {
		level = DebugLevel
	}
	return New("", f, level), f, nil
}

func (l *zapLogger) msg(format string) string {
	if l.prefix == "" {
		return format
	}
	return l.prefix + " " + format
}

func (l *zapLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(l.msg(format), args...)
}

func (l *zapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(l.msg(format), args...)
}

func (l *zapLogger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(l.msg(format), args...)
}

func (l *zapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(l.msg(format), args...)
}
