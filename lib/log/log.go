/**
 * Copyright 2025 Payroll Standard. All rights reserved.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License. You may obtain a copy
 * of the License at http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under
 * the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR REPRESENTATIONS
 * OF ANY KIND, either express or implied. See the License for the specific language
 * governing permissions and limitations under the License.
 */

// Package log provides structured logging for the e2e suite with optional
// OpenTelemetry export
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

type Level = slog.Level

const (
	LevelDebug Level = slog.LevelDebug
	LevelInfo  Level = slog.LevelInfo
	LevelWarn  Level = slog.LevelWarn
	LevelError Level = slog.LevelError
)

const otelScope = "payroll-e2e"

var (
	loggerMu sync.RWMutex
	logger   *slog.Logger

	otelHandler *otelslog.Handler
)

func init() {
	_ = Initialize(DefaultConfig())
}

// Config of the logger
type Config struct {
	Level        string `json:"level"`         // debug, info, warn, error
	Format       string `json:"format"`        // console or json
	UseTimestamp bool   `json:"use_timestamp"` // Prepend timestamp to console lines
	OtelEnabled  bool   `json:"otel_enabled"`  // Duplicate records to OpenTelemetry

	// Output is stdout when not set
	Output io.Writer `json:"-"`
}

// DefaultConfig returns console logging on info level
func DefaultConfig() *Config {
	return &Config{
		Level:        "info",
		Format:       "console",
		UseTimestamp: true,
	}
}

// ParseLevel converts string level to slog.Level
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level %q", levelStr)
}

// Initialize sets up the global logger with the given configuration
func Initialize(config *Config) error {
	level, err := ParseLevel(config.Level)
	if err != nil {
		return err
	}

	output := config.Output
	if output == nil {
		output = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch config.Format {
	case "console", "":
		console := NewConsoleHandler(output, opts)
		console.SetUseTimestamp(config.UseTimestamp)
		handler = console
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		return fmt.Errorf("invalid log format %q", config.Format)
	}

	loggerMu.Lock()
	logger = slog.New(handler)
	otelHandler = nil
	loggerMu.Unlock()

	if config.OtelEnabled {
		SetupOtelIntegration()
	}
	return nil
}

// SetupOtelIntegration duplicates all the records into the global
// OpenTelemetry logger provider, which is set by the monitoring package
func SetupOtelIntegration() {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if otelHandler != nil {
		return
	}
	otelHandler = otelslog.NewHandler(otelScope)
	logger = slog.New(&multiHandler{handlers: []slog.Handler{logger.Handler(), otelHandler}})
}

// multiHandler sends the record to every handler
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := &multiHandler{handlers: make([]slog.Handler, len(h.handlers))}
	for i, handler := range h.handlers {
		out.handlers[i] = handler.WithAttrs(attrs)
	}
	return out
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	out := &multiHandler{handlers: make([]slog.Handler, len(h.handlers))}
	for i, handler := range h.handlers {
		out.handlers[i] = handler.WithGroup(name)
	}
	return out
}

// Logger returns the global logger
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// WithFunc provides a way to identify package and function executed
func WithFunc(pack, fun string) *slog.Logger {
	return Logger().With("pack", pack, "func", fun)
}

// Info logs on the global logger
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Debugf logs formatted message on debug level
func Debugf(format string, args ...any) {
	l := Logger()
	if l.Enabled(context.Background(), LevelDebug) {
		l.Debug(fmt.Sprintf(format, args...))
	}
}
