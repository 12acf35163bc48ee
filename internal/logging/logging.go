// Package logging configures the process-wide slog logger and provides
// the structured event helpers used by the CLI and the check service.
// The parser core never logs; diagnostics are its reporting channel.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Level selects the minimum severity that gets logged.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Format selects the log output encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

var logger *slog.Logger

func init() {
	InitLogger(LevelInfo, FormatJSON)
}

// InitLogger replaces the process-wide logger, writing to stdout.
func InitLogger(level Level, format Format) {
	initLogger(os.Stdout, level, format)
}

func initLogger(w io.Writer, level Level, format Format) {
	slogLevel := slog.LevelInfo
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatText {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// WithRequestID stores a request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func fromContext(ctx context.Context) *slog.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return logger.With("request_id", id)
	}
	return logger
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { logger.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { logger.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { logger.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { logger.Error(msg, args...) }

// HTTPRequestContext logs one completed HTTP request, carrying the
// request ID from ctx when present.
func HTTPRequestContext(ctx context.Context, method, path, remoteAddr string, statusCode int, duration time.Duration, args ...any) {
	allArgs := []any{
		"method", method,
		"path", path,
		"remote_addr", remoteAddr,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	}
	allArgs = append(allArgs, args...)
	fromContext(ctx).Info("http_request", allArgs...)
}

// ParseEvent logs the outcome of parsing one source file.
func ParseEvent(path string, nodes, diagnostics int, args ...any) {
	allArgs := []any{
		"path", path,
		"nodes", nodes,
		"diagnostics", diagnostics,
	}
	allArgs = append(allArgs, args...)
	logger.Info("parse", allArgs...)
}

// ParseError logs a failed parse or read of a source file.
func ParseError(path, operation string, err error, args ...any) {
	allArgs := []any{
		"path", path,
		"operation", operation,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	logger.Error("parse_error", allArgs...)
}

// WebSocketEvent logs a websocket client connect or disconnect.
func WebSocketEvent(event string, clientCount int, args ...any) {
	allArgs := []any{
		"event", event,
		"client_count", clientCount,
	}
	allArgs = append(allArgs, args...)
	logger.Info("websocket_event", allArgs...)
}

// ServerStartup logs server startup information.
func ServerStartup(serverType, protocol string, port int, args ...any) {
	allArgs := []any{
		"server_type", serverType,
		"protocol", protocol,
		"port", port,
	}
	allArgs = append(allArgs, args...)
	logger.Info("server_startup", allArgs...)
}
