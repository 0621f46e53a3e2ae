// Package logger is the slog setup shared by the API server and serveonctl,
// plus the named events both of them emit.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	// RequestIDKey holds the X-Request-ID of the current request.
	RequestIDKey contextKey = "request_id"
	// UserIDKey holds the caller's user ID.
	UserIDKey contextKey = "user_id"
)

type Logger struct {
	*slog.Logger
}

// New logs to stdout.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter logs to w: debug-level text in development, info-level
// JSON anywhere else.
func NewWithWriter(env string, w io.Writer) *Logger {
	if strings.EqualFold(env, "development") {
		return &Logger{slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	}
	return &Logger{slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// Discard drops every record.
func Discard() *Logger {
	return &Logger{slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithContext tags records with the request and user IDs found on ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	var attrs []any
	if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
		attrs = append(attrs, slog.String("request_id", v))
	}
	if v, ok := ctx.Value(UserIDKey).(string); ok && v != "" {
		attrs = append(attrs, slog.String("user_id", v))
	}
	if len(attrs) == 0 {
		return l
	}
	return &Logger{l.With(attrs...)}
}

func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

func (l *Logger) HTTPError(method, path string, status int, err error, clientIP string) {
	l.Error("http_error",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
		slog.String("client_ip", clientIP),
	)
}

func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}

// StorageDegraded records a key-value failure that was answered with an
// empty value instead of an error.
func (l *Logger) StorageDegraded(operation, key string, err error) {
	l.Warn("storage_degraded",
		slog.String("operation", operation),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

// ExportRecorded notes a finished CSV export. objectKey is empty when the
// file was not archived.
func (l *Logger) ExportRecorded(entityType string, rows int, objectKey string) {
	l.Info("export_recorded",
		slog.String("entity_type", entityType),
		slog.Int("rows", rows),
		slog.String("object_key", objectKey),
	)
}

// ExportDegraded records a failed archival or log write. The download it
// belongs to has already been served.
func (l *Logger) ExportDegraded(stage, entityType string, err error) {
	l.Warn("export_degraded",
		slog.String("stage", stage),
		slog.String("entity_type", entityType),
		slog.String("error", err.Error()),
	)
}
