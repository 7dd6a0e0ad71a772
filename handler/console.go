package handler

import (
	"io"
	"os"
	"sync"

	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/formatter"
)

// ConsoleHandler writes formatted records to a writer, stdout by default.
// The writer mutex makes bare (unwrapped) use safe and lets HandleBatch
// amortize the lock over a whole batch.
type ConsoleHandler struct {
	base
	mu     sync.Mutex
	writer io.Writer
}

// ConsoleConfig holds configuration for the console handler
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Level is the handler's threshold (default: InfoLevel)
	Level core.Level
	// Formatter to use (default: TextFormatter with colors)
	Formatter formatter.Formatter
}

// NewConsoleHandler creates a console handler.
func NewConsoleHandler(cfg ConsoleConfig) *ConsoleHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Level == 0 {
		cfg.Level = core.InfoLevel
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{Colors: true})
	}
	return &ConsoleHandler{
		base:   newBase(cfg.Level, cfg.Formatter),
		writer: cfg.Writer,
	}
}

// Handle formats and writes one record.
func (h *ConsoleHandler) Handle(rec *core.Record) error {
	data, err := h.fmtr.Format(rec)
	if err != nil {
		return err
	}
	h.mu.Lock()
	_, err = h.writer.Write(data)
	h.mu.Unlock()
	return err
}

// HandleBatch writes the whole batch under one lock acquisition.
func (h *ConsoleHandler) HandleBatch(recs []*core.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, rec := range recs {
		data, err := h.fmtr.Format(rec)
		if err != nil {
			return err
		}
		if _, err := h.writer.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op; the writer is unbuffered.
func (h *ConsoleHandler) Flush() error { return nil }

// Close is a no-op; the handler does not own the writer.
func (h *ConsoleHandler) Close() error { return nil }
