// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"io"
	"log/slog"
	"os"
)

const (
	// LogLevelEnvVar is the environment variable that sets the log level.
	// Valid values are "DEBUG", "INFO", "WARN" and "ERROR". Anything else selects WARN.
	LogLevelEnvVar = "GPUSH_LOG_LEVEL"
)

type loggerKey struct{}

// LevelVar is shared by all loggers created by this package so the level can be changed at runtime.
var LevelVar = &slog.LevelVar{}

// DefaultLogger writes pretty, coloured log lines to stderr.
// Log output goes to stderr so that it never mixes with the status blocks written to stdout.
var DefaultLogger = NewPrettyLogger(os.Stderr)

func init() {
	LevelVar.Set(logLevelFromEnv())
}

// NewPrettyLogger returns a logger using the PrettyHandler that writes to w.
func NewPrettyLogger(w io.Writer) *slog.Logger {
	return slog.New(NewPrettyHandler(&slog.HandlerOptions{
		Level: LevelVar,
	},
		WithAutoColour(),
		WithDestinationWriter(w),
	))
}

// New returns a copy of ctx carrying logger.
// If logger is nil, DefaultLogger is used.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger from the context, or the default logger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Info logs an info message with the given context.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Debug logs a debug message with the given context.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Warn logs a warning message with the given context.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs an error message with the given context.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

func logLevelFromEnv() slog.Level {
	switch os.Getenv(LogLevelEnvVar) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
