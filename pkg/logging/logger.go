// Copyright 2026 Pangea Cyber Corporation
//
// Package logging provides structured logging for the audit client. It
// wraps log/slog with JSON/text handler selection and field helpers that
// understand the module's coded errors. There is no global logger: the
// client receives its logger explicitly.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pangeacyber/go-pangea/pkg/errors"
)

// Logger wraps slog.Logger with field helpers.
type Logger struct {
	*slog.Logger
	config *Config
}

// Config represents logging configuration
type Config struct {
	Level     slog.Level `json:"level"`
	Format    string     `json:"format"` // "json" or "text"
	Output    string     `json:"output"` // "stdout", "stderr", or file path
	AddSource bool       `json:"add_source"`
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var output io.Writer
	switch config.Output {
	case "stdout":
		output = os.Stdout
	case "stderr", "":
		output = os.Stderr
	default:
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
		config: config,
	}, nil
}

// DefaultConfig returns a default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:  slog.LevelInfo,
		Format: "text",
		Output: "stderr",
	}
}

// Discard returns a logger that drops everything. Used in tests and as the
// fallback when a client is constructed without a logger.
func Discard() *Logger {
	cfg := &Config{Level: slog.Level(127)}
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: cfg.Level})),
		config: cfg,
	}
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields ...Field) *Logger {
	if len(fields) == 0 {
		return l
	}

	args := make([]any, len(fields)*2)
	for i, field := range fields {
		args[i*2] = field.Key
		args[i*2+1] = field.Value
	}

	return &Logger{
		Logger: l.Logger.With(args...),
		config: l.config,
	}
}

// WithError returns a logger with error information attached, including the
// error code when the error is an AuditError.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	args := []any{"error", err.Error()}
	if ae, ok := errors.AsAuditError(err); ok {
		args = append(args, "error_code", string(ae.Code))
		if ae.Details != "" {
			args = append(args, "error_details", ae.Details)
		}
	}

	return &Logger{
		Logger: l.Logger.With(args...),
		config: l.config,
	}
}

// WithComponent returns a logger with component information
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields(Field{Key: "component", Value: component})
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(slog.LevelDebug, msg, fields...)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(slog.LevelInfo, msg, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(slog.LevelWarn, msg, fields...)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(slog.LevelError, msg, fields...)
}

func (l *Logger) log(level slog.Level, msg string, fields ...Field) {
	if !l.Logger.Enabled(context.Background(), level) {
		return
	}

	attrs := make([]slog.Attr, len(fields))
	for i, field := range fields {
		attrs[i] = slog.Any(field.Key, field.Value)
	}
	l.Logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogRequest logs an outbound HTTP request at a level matching its status.
func (l *Logger) LogRequest(method, url string, statusCode int, duration time.Duration, fields ...Field) {
	allFields := append([]Field{
		{Key: "method", Value: method},
		{Key: "url", Value: url},
		{Key: "status_code", Value: statusCode},
		{Key: "duration_ms", Value: duration.Milliseconds()},
	}, fields...)

	level := slog.LevelDebug
	if statusCode >= 400 {
		level = slog.LevelWarn
	}
	if statusCode >= 500 {
		level = slog.LevelError
	}

	l.log(level, "HTTP request", allFields...)
}

// ParseLevel parses a log level string
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}
