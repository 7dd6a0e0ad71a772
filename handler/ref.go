package handler

import (
	"fmt"
	"sync"

	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/formatter"
)

// Ref is a shared reference to a handler behind a read-write lock. Many
// loggers and async workers may hold the same Ref; delivery takes the
// lock per call so that two workers writing into different handlers
// proceed in parallel while calls into the same handler serialize.
type Ref struct {
	mu sync.RWMutex
	h  Handler
}

// NewRef wraps h in a shared, lockable reference.
func NewRef(h Handler) *Ref {
	return &Ref{h: h}
}

// Deliver checks enabled, level and filter under the write guard and, if
// the record passes, hands it to the handler. The synchronous logger path
// uses this. It reports whether the handler accepted the record; handler
// errors are returned for best-effort reporting and a panicking handler
// is recovered so the caller never unwinds.
func (r *Ref) Deliver(rec *core.Record) (accepted bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer recoverHandlerPanic(&err)

	if !r.h.Enabled() || rec.Level() < r.h.Level() {
		return false, nil
	}
	if f := r.h.Filter(); f != nil && !f(rec) {
		return false, nil
	}
	if err := r.h.Handle(rec); err != nil {
		return false, err
	}
	return true, nil
}

// DeliverBatch hands a batch to the handler under the read guard. Each
// record is re-checked against the handler's own level and filter before
// inclusion, so the batched path gives the same per-handler guarantee as
// the synchronous one.
func (r *Ref) DeliverBatch(recs []*core.Record) (err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defer recoverHandlerPanic(&err)

	if !r.h.Enabled() {
		return nil
	}

	level := r.h.Level()
	filter := r.h.Filter()

	accepted := recs
	// Avoid the copy when every record passes, the common case.
	for i, rec := range recs {
		if rec.Level() >= level && (filter == nil || filter(rec)) {
			continue
		}
		accepted = make([]*core.Record, i, len(recs))
		copy(accepted, recs[:i])
		for _, rec := range recs[i+1:] {
			if rec.Level() >= level && (filter == nil || filter(rec)) {
				accepted = append(accepted, rec)
			}
		}
		break
	}

	if len(accepted) == 0 {
		return nil
	}
	return r.h.HandleBatch(accepted)
}

// Flush forwards the flush lifecycle hook.
func (r *Ref) Flush() (err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defer recoverHandlerPanic(&err)
	return r.h.Flush()
}

// Close forwards the close lifecycle hook.
func (r *Ref) Close() (err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defer recoverHandlerPanic(&err)
	return r.h.Close()
}

// Level returns the wrapped handler's threshold.
func (r *Ref) Level() core.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.h.Level()
}

// SetLevel replaces the wrapped handler's threshold.
func (r *Ref) SetLevel(level core.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.h.SetLevel(level)
}

// Enabled reports the wrapped handler's on/off switch.
func (r *Ref) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.h.Enabled()
}

// SetEnabled flips the wrapped handler's switch.
func (r *Ref) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.h.SetEnabled(enabled)
}

// Filter returns the wrapped handler's predicate.
func (r *Ref) Filter() Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.h.Filter()
}

// SetFilter replaces the wrapped handler's predicate.
func (r *Ref) SetFilter(f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.h.SetFilter(f)
}

// Formatter returns the wrapped handler's formatter.
func (r *Ref) Formatter() formatter.Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.h.Formatter()
}

// SetFormatter replaces the wrapped handler's formatter.
func (r *Ref) SetFormatter(f formatter.Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.h.SetFormatter(f)
}

// recoverHandlerPanic converts a handler panic into a reported error so
// worker loops and logging callers keep running.
func recoverHandlerPanic(err *error) {
	if p := recover(); p != nil {
		core.Diag("handler panicked: %v", p)
		if err != nil && *err == nil {
			*err = &panicError{value: p}
		}
	}
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("handler panic: %v", e.value)
}
