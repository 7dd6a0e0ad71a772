package handler

import (
	"context"
	"log/slog"

	"github.com/j-raghavan/goguru/core"
)

// SlogHandler adapts a goguru handler to the log/slog interface, so the
// library can back a *slog.Logger. slog attributes become record
// metadata; groups become dotted key prefixes.
type SlogHandler struct {
	ref   *Ref
	level core.Level
	attrs map[string]string
	group string
}

// NewSlogHandler wraps ref as a slog.Handler with the given threshold.
func NewSlogHandler(ref *Ref, level core.Level) *SlogHandler {
	return &SlogHandler{ref: ref, level: level}
}

// Enabled reports whether records at the given slog level pass the threshold.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return slogLevelToCore(level) >= s.level
}

// Handle converts the slog record and delivers it through the wrapped handler.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	rec := core.NewRecord(slogLevelToCore(record.Level), record.Message)
	for k, v := range s.attrs {
		rec = rec.WithMetadata(k, v)
	}
	record.Attrs(func(a slog.Attr) bool {
		rec = rec.WithMetadata(s.key(a.Key), a.Value.Resolve().String())
		return true
	})
	_, err := s.ref.Deliver(rec)
	return err
}

// WithAttrs returns a handler carrying the additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := s.clone()
	for _, a := range attrs {
		next.attrs[next.key(a.Key)] = a.Value.Resolve().String()
	}
	return next
}

// WithGroup returns a handler that prefixes subsequent keys with name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	next := s.clone()
	if next.group != "" {
		next.group = next.group + "." + name
	} else {
		next.group = name
	}
	return next
}

func (s *SlogHandler) clone() *SlogHandler {
	attrs := make(map[string]string, len(s.attrs)+4)
	for k, v := range s.attrs {
		attrs[k] = v
	}
	return &SlogHandler{ref: s.ref, level: s.level, attrs: attrs, group: s.group}
}

func (s *SlogHandler) key(k string) string {
	if s.group == "" {
		return k
	}
	return s.group + "." + k
}

// slogLevelToCore maps slog levels onto goguru levels.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarningLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}
