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

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorRed    = "\033[91m"
	colorYellow = "\033[93m"
	colorBlue   = "\033[94m"
	colorCyan   = "\033[96m"
	colorDim    = "\033[2m"
)

// ConsoleHandler formats records as a single human readable line:
//
//	[251015/142301+00] INF Message pack.func key=value
type ConsoleHandler struct {
	opts *slog.HandlerOptions

	// Shared between the derived handlers to serialize writes
	mu     *sync.Mutex
	writer io.Writer

	useColor     bool
	useTimestamp bool

	attrs  []slog.Attr
	prefix string
}

// NewConsoleHandler creates a new ConsoleHandler, colors are enabled when
// the writer is a terminal
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ConsoleHandler{
		opts:         opts,
		mu:           &sync.Mutex{},
		writer:       w,
		useColor:     isTerminal(w),
		useTimestamp: true,
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SetUseColor overrides the color autodetection
func (h *ConsoleHandler) SetUseColor(useColor bool) {
	h.useColor = useColor
}

// SetUseTimestamp enables or disables the timestamp prefix
func (h *ConsoleHandler) SetUseTimestamp(useTimestamp bool) {
	h.useTimestamp = useTimestamp
}

func (h *ConsoleHandler) level() slog.Level {
	if h.opts.Level == nil {
		return slog.LevelInfo
	}
	return h.opts.Level.Level()
}

// Enabled reports whether the handler handles records at the given level
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level()
}

// Handle writes the record
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	if h.useTimestamp && !r.Time.IsZero() {
		layout := "060102/150405-07"
		if h.level() <= slog.LevelDebug {
			layout = "060102/150405.000-07"
		}
		buf.WriteString(h.paint(colorGray, "["+r.Time.Format(layout)+"]"))
		buf.WriteByte(' ')
	}

	levelColor := levelColor(r.Level)
	buf.WriteString(h.paint(levelColor, levelName(r.Level)))
	buf.WriteByte(' ')
	buf.WriteString(h.paint(levelColor, r.Message))

	var pack, fun string
	var rest []slog.Attr
	collect := func(a slog.Attr, prefix string) {
		switch {
		case prefix == "" && a.Key == "pack":
			pack = a.Value.String()
		case prefix == "" && a.Key == "func":
			fun = a.Value.String()
		default:
			if prefix != "" {
				a.Key = prefix + a.Key
			}
			rest = append(rest, a)
		}
	}
	for _, a := range h.attrs {
		collect(a, "")
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(a, h.prefix)
		return true
	})

	if pack != "" && fun != "" {
		buf.WriteByte(' ')
		buf.WriteString(h.paint(colorDim, pack+"."+fun))
	}
	for _, a := range rest {
		h.writeAttr(&buf, a)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, buf.String())
	return err
}

func (h *ConsoleHandler) writeAttr(buf *strings.Builder, a slog.Attr) {
	if h.opts.ReplaceAttr != nil {
		if a = h.opts.ReplaceAttr(nil, a); a.Key == "" {
			return
		}
	}
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			ga.Key = a.Key + "." + ga.Key
			h.writeAttr(buf, ga)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if strings.ContainsAny(s, " \t\"=") {
			s = strconv.Quote(s)
		}
		buf.WriteString(s)
	case slog.KindTime:
		buf.WriteString(a.Value.Time().Format(time.RFC3339))
	default:
		fmt.Fprintf(buf, "%v", a.Value.Any())
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERR"
	case level >= slog.LevelWarn:
		return "WRN"
	case level >= slog.LevelInfo:
		return "INF"
	default:
		return "DBG"
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorBlue
	default:
		return colorCyan
	}
}

func (h *ConsoleHandler) paint(color, text string) string {
	if !h.useColor {
		return text
	}
	return color + text + colorReset
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	return &c
}

// WithAttrs returns a new ConsoleHandler with the given attributes
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		c.attrs = append(c.attrs, a)
	}
	return c
}

// WithGroup returns a new ConsoleHandler which prefixes attribute keys with
// the group name
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.prefix = h.prefix + name + "."
	return c
}
