// Package zerologadapter implements the observability logging interfaces on
// rs/zerolog.
package zerologadapter

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/twinforge/thing-engine-go/observability"
)

// Logger implements observability.Logger and observability.ContextualLogger
// on a zerolog.Logger. Args follow the slog convention of alternating keys
// and values; a trailing value without a key is logged under "arg".
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates an adapter on the given zerolog logger.
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.emit(l.logger.Debug(), msg, args)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.emit(l.logger.Info(), msg, args)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.emit(l.logger.Warn(), msg, args)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.emit(l.logger.Error(), msg, args)
}

// DebugContext logs a debug message carrying the context.
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(l.logger.Debug().Ctx(ctx), msg, args)
}

// InfoContext logs an info message carrying the context.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(l.logger.Info().Ctx(ctx), msg, args)
}

// WarnContext logs a warning message carrying the context.
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(l.logger.Warn().Ctx(ctx), msg, args)
}

// ErrorContext logs an error message carrying the context.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(l.logger.Error().Ctx(ctx), msg, args)
}

func (l *Logger) emit(event *zerolog.Event, msg string, args []any) {
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			event = event.Interface("arg", args[i])
			break
		}

		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		event = event.Interface(key, args[i+1])
	}

	event.Msg(msg)
}

var _ observability.Logger = (*Logger)(nil)
var _ observability.ContextualLogger = (*Logger)(nil)
