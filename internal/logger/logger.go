package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init builds the process-wide logger. Idempotent: only the first call
// has effect. APP_ENV=prod switches to JSON output, LOG_LEVEL controls
// the minimum level (default info).
func Init() {
	once.Do(func() {
		instance = build(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	})
}

func build(env, level string) *zap.Logger {
	var cfg zap.Config
	if strings.ToLower(env) == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l, _ = zap.NewProduction(zap.AddCallerSkip(1))
	}
	return l
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// l returns the process logger, initializing it on first use. The read
// goes through Init's sync.Once so concurrent first calls are safe.
func l() *zap.Logger {
	Init()
	return instance
}

func toFields(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func Info(msg string, fields map[string]any) {
	l().Info(msg, toFields(fields)...)
}

func Warn(msg string, fields map[string]any) {
	l().Warn(msg, toFields(fields)...)
}

func Error(msg string, fields map[string]any) {
	l().Error(msg, toFields(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	l().Fatal(msg, toFields(fields)...)
}

// Sync flushes any buffered log entries. Call via defer in main.
func Sync() {
	_ = l().Sync()
}
