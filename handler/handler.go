package handler

import (
	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/formatter"
)

// Filter is an optional per-handler predicate. A record is suppressed
// when the filter returns false, even if level and enabled checks pass.
// Filters are evaluated by the dispatching side (logger or async worker),
// not by handlers themselves.
type Filter func(*core.Record) bool

// Handler is the sink capability interface. Implementations render and
// write records; level, enabled and filter gating is performed by the
// caller. Handlers are not required to be safe for concurrent use on
// their own: Ref serializes access to a shared handler.
type Handler interface {
	// Level returns the handler's minimum severity threshold
	Level() core.Level
	// SetLevel replaces the threshold
	SetLevel(level core.Level)

	// Enabled reports the hard on/off switch, independent of level
	Enabled() bool
	// SetEnabled flips the switch
	SetEnabled(enabled bool)

	// Formatter returns the rendering strategy
	Formatter() formatter.Formatter
	// SetFormatter replaces the rendering strategy
	SetFormatter(f formatter.Formatter)

	// Filter returns the optional predicate, or nil
	Filter() Filter
	// SetFilter replaces the predicate; nil removes it
	SetFilter(f Filter)

	// Handle processes one record. Failures are reported, never panicked.
	Handle(rec *core.Record) error

	// HandleBatch processes a group of records. Simple handlers repeat
	// Handle per record; others batch the write under a single lock.
	HandleBatch(recs []*core.Record) error

	// Flush forces buffered output out. Safe to call multiple times.
	Flush() error

	// Close releases resources. Safe to call multiple times.
	Close() error
}

// handleEach is the default HandleBatch strategy: one Handle call per
// record, stopping at the first error.
func handleEach(h Handler, recs []*core.Record) error {
	for _, rec := range recs {
		if err := h.Handle(rec); err != nil {
			return err
		}
	}
	return nil
}
