// Package logx is the process-wide logger. It keeps a package-level zap
// logger so services can log without threading a logger through every
// constructor.
package logx

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Field is a structured log field.
type Field = zap.Field

var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Float64  = zap.Float64
	Bool     = zap.Bool
	Duration = zap.Duration
	Err      = zap.Error
	Any      = zap.Any
)

var (
	mu     sync.RWMutex
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	output = "stdout"
	logger = mustBuild(false)
)

func mustBuild(json bool) *zap.Logger {
	l, err := build(json)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func build(json bool) (*zap.Logger, error) {
	encoding := "console"
	if json {
		encoding = "json"
	}
	mu.RLock()
	out := output
	mu.RUnlock()

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            level,
		OutputPaths:      []string{out},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:    "msg",
			LevelKey:      "level",
			EncodeLevel:   zapcore.LowercaseLevelEncoder,
			TimeKey:       "time",
			EncodeTime:    zapcore.RFC3339TimeEncoder,
			CallerKey:     "caller",
			EncodeCaller:  zapcore.ShortCallerEncoder,
			StacktraceKey: "stacktrace",
		},
	}
	return cfg.Build(zap.AddCallerSkip(1))
}

// Configure rebuilds the global logger with the given encoding and level.
func Configure(json bool, lvl Level) error {
	SetLevel(lvl)
	l, err := build(json)
	if err != nil {
		return err
	}
	Replace(l)
	return nil
}

// ToStderr sends subsequent logs to stderr, for commands that own stdout.
// It takes effect on the next Configure.
func ToStderr() {
	mu.Lock()
	output = "stderr"
	mu.Unlock()
}

// Replace swaps the global logger, mostly for tests using zaptest/observer.
func Replace(l *zap.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func SetLevel(lvl Level) {
	var zl zapcore.Level
	if err := zl.UnmarshalText([]byte(strings.ToLower(string(lvl)))); err != nil {
		zl = zapcore.InfoLevel
	}
	level.SetLevel(zl)
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func sugar() *zap.SugaredLogger { return L().Sugar() }

func Sync() { _ = L().Sync() }

// With returns a child logger carrying fields.
func With(fields ...Field) *zap.Logger { return L().With(fields...) }

func Debug(msg string, fields ...Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { L().Error(msg, fields...) }

func Debugf(format string, args ...any) { sugar().Debugf(format, args...) }
func Infof(format string, args ...any)  { sugar().Infof(format, args...) }
func Warnf(format string, args ...any)  { sugar().Warnf(format, args...) }
func Errorf(format string, args ...any) { sugar().Errorf(format, args...) }
func Fatalf(format string, args ...any) { sugar().Fatalf(format, args...) }

// Truncate shortens s for log output.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
