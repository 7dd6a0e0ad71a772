package handler

import (
	"github.com/j-raghavan/goguru/core"
)

// NullHandler accepts every record and does nothing with it. Useful for
// tests and as a placeholder sink.
type NullHandler struct {
	base
}

// NewNullHandler creates a null handler with the given threshold.
func NewNullHandler(level core.Level) *NullHandler {
	return &NullHandler{base: newBase(level, nil)}
}

func (h *NullHandler) Handle(_ *core.Record) error { return nil }

func (h *NullHandler) HandleBatch(recs []*core.Record) error { return handleEach(h, recs) }

func (h *NullHandler) Flush() error { return nil }

func (h *NullHandler) Close() error { return nil }
