// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// SlogHandler implements slog.Handler on top of zerolog so libraries that
// require a *slog.Logger (sutureslog in particular) write through the same
// diagnostic channel as the rest of the process.
type SlogHandler struct {
	logger zerolog.Logger
	attrs  []slog.Attr
	groups []string
}

// NewSlogHandler wraps the global zerolog logger.
func NewSlogHandler() *SlogHandler {
	return &SlogHandler{logger: Logger()}
}

// NewSlogLogger returns a *slog.Logger backed by the global zerolog logger.
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler())
}

// Enabled reports whether records at the given level are handled.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.GetLevel() <= slogToZerologLevel(level)
}

// Handle writes the record to zerolog.
//
//nolint:gocritic // slog.Record is passed by value per the Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	var evt *zerolog.Event
	switch {
	case record.Level >= slog.LevelError:
		evt = h.logger.Error()
	case record.Level >= slog.LevelWarn:
		evt = h.logger.Warn()
	case record.Level >= slog.LevelInfo:
		evt = h.logger.Info()
	default:
		evt = h.logger.Debug()
	}

	for _, attr := range h.attrs {
		evt = addAttr(evt, attr, h.groups)
	}
	record.Attrs(func(attr slog.Attr) bool {
		evt = addAttr(evt, attr, h.groups)
		return true
	})

	evt.Msg(record.Message)
	return nil
}

// WithAttrs returns a handler that includes the given attributes.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &SlogHandler{logger: h.logger, attrs: merged, groups: h.groups}
}

// WithGroup returns a handler that qualifies attribute keys with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &SlogHandler{logger: h.logger, attrs: h.attrs, groups: groups}
}

func addAttr(evt *zerolog.Event, attr slog.Attr, groups []string) *zerolog.Event {
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	switch attr.Value.Kind() {
	case slog.KindString:
		return evt.Str(key, attr.Value.String())
	case slog.KindInt64:
		return evt.Int64(key, attr.Value.Int64())
	case slog.KindUint64:
		return evt.Uint64(key, attr.Value.Uint64())
	case slog.KindFloat64:
		return evt.Float64(key, attr.Value.Float64())
	case slog.KindBool:
		return evt.Bool(key, attr.Value.Bool())
	case slog.KindDuration:
		return evt.Dur(key, attr.Value.Duration())
	case slog.KindTime:
		return evt.Time(key, attr.Value.Time())
	case slog.KindGroup:
		for _, member := range attr.Value.Group() {
			evt = addAttr(evt, member, append(groups, attr.Key))
		}
		return evt
	default:
		return evt.Interface(key, attr.Value.Any())
	}
}

func slogToZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
