// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package logger provides the slog based logger used throughout weather-agent.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps a slog.Logger so we can attach helper methods later on without
// touching every caller.
type Logger struct {
	*slog.Logger
}

// New returns a text logger that writes to stderr with the given minimum level.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a text logger that writes to output with the given minimum level.
func NewLogger(level slog.Level, output io.Writer) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))}
}

// With returns a Logger that includes the given attributes in each output operation.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

// Err returns a slog attribute for the given error.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
