package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides leveled, printf-style logging throughout the application.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a console Logger at the given level ("debug", "info", "warn", "error").
// An unknown level falls back to info.
func NewLogger(level string) *Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return &Logger{sugar: logger.Sugar()}
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
