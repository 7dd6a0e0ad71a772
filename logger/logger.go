package logger

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/j-raghavan/goguru/async"
	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/handler"
)

// Logger dispatches records to a set of handler references, either
// synchronously in the caller's goroutine or through an async worker
// pool. All methods are safe for concurrent use.
type Logger struct {
	mu            sync.RWMutex
	level         core.Level
	handlers      []*handler.Ref
	captureSource bool
	active        atomic.Bool

	pool     *async.Handle
	poolOpts poolOptions
}

// poolOptions is remembered across pool rebuilds so that toggling async
// off and on keeps the configured shape.
type poolOptions struct {
	queueSize     int
	workers       int
	batchSize     int
	flushInterval time.Duration
}

// New creates an active synchronous logger with no handlers.
func New(level core.Level) *Logger {
	l := &Logger{
		level: level,
		poolOpts: poolOptions{
			queueSize:     async.DefaultQueueSize,
			workers:       async.DefaultWorkers,
			batchSize:     async.DefaultBatchSize,
			flushInterval: async.DefaultFlushInterval,
		},
	}
	l.active.Store(true)
	return l
}

// Level returns the logger's severity floor.
func (l *Logger) Level() core.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetLevel replaces the severity floor. In async mode the pool is
// rebuilt so its workers pick up the new floor.
func (l *Logger) SetLevel(level core.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.rebuildPoolLocked()
}

// Active reports whether the logger dispatches at all.
func (l *Logger) Active() bool { return l.active.Load() }

// SetActive flips the master switch. An inactive logger rejects every
// record before any handler is consulted.
func (l *Logger) SetActive(active bool) { l.active.Store(active) }

// CaptureSource reports whether convenience methods resolve their caller.
func (l *Logger) CaptureSource() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.captureSource
}

// SetCaptureSource toggles caller resolution for the convenience
// methods. Records built by hand are unaffected.
func (l *Logger) SetCaptureSource(capture bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.captureSource = capture
}

// AddHandler attaches a handler reference. In async mode the pool is
// rebuilt so workers fan out to the new handler.
func (l *Logger) AddHandler(ref *handler.Ref) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, ref)
	l.rebuildPoolLocked()
}

// RemoveHandler detaches a handler reference by identity. It reports
// whether the reference was attached.
func (l *Logger) RemoveHandler(ref *handler.Ref) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.handlers {
		if r == ref {
			l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
			l.rebuildPoolLocked()
			return true
		}
	}
	return false
}

// Handlers returns a copy of the attached handler references.
func (l *Logger) Handlers() []*handler.Ref {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*handler.Ref, len(l.handlers))
	copy(out, l.handlers)
	return out
}

// Async reports whether the logger currently dispatches through a
// worker pool.
func (l *Logger) Async() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pool != nil
}

// SetAsync switches between synchronous and asynchronous dispatch.
// Enabling when already async, or disabling when already sync, is a
// no-op; exactly one pool exists at a time. queueSize <= 0 keeps the
// current queue capacity. Disabling shuts the pool down and drains
// every record it accepted.
func (l *Logger) SetAsync(enable bool, queueSize int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if enable {
		if queueSize > 0 {
			l.poolOpts.queueSize = queueSize
		}
		if l.pool != nil {
			return
		}
		l.pool = l.buildPoolLocked()
		return
	}

	if l.pool == nil {
		return
	}
	l.pool.Shutdown()
	l.pool = nil
}

// SetWorkerThreads sets the worker goroutine count. In async mode the
// running pool is torn down, drained and rebuilt with n workers.
func (l *Logger) SetWorkerThreads(n int) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.poolOpts.workers = n
	l.rebuildPoolLocked()
}

// SetBatchSize sets how many records async workers flush together.
func (l *Logger) SetBatchSize(n int) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.poolOpts.batchSize = n
	l.rebuildPoolLocked()
}

// SetFlushInterval bounds the latency of partially filled async batches.
func (l *Logger) SetFlushInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.poolOpts.flushInterval = d
	l.rebuildPoolLocked()
}

// rebuildPoolLocked replaces a running pool with one reflecting the
// current handlers, level and options. No-op in sync mode.
func (l *Logger) rebuildPoolLocked() {
	if l.pool == nil {
		return
	}
	l.pool.Shutdown()
	l.pool = l.buildPoolLocked()
}

func (l *Logger) buildPoolLocked() *async.Handle {
	refs := make([]*handler.Ref, len(l.handlers))
	copy(refs, l.handlers)
	return async.NewBuilder().
		WithQueueSize(l.poolOpts.queueSize).
		WithHandlers(refs).
		WithLevel(l.level).
		WithWorkers(l.poolOpts.workers).
		WithBatchSize(l.poolOpts.batchSize).
		WithFlushInterval(l.poolOpts.flushInterval).
		Build()
}

// Log dispatches one record. It returns false without touching any
// handler when the logger is inactive or the record is below the
// severity floor. In async mode the return value reports queue
// acceptance; in sync mode it reports whether at least one handler
// accepted the record.
func (l *Logger) Log(rec *core.Record) bool {
	if !l.active.Load() {
		return false
	}

	l.mu.RLock()
	if rec.Level() < l.level {
		l.mu.RUnlock()
		return false
	}
	pool := l.pool
	refs := l.handlers
	l.mu.RUnlock()

	if pool != nil {
		return pool.Log(rec)
	}

	accepted := false
	for _, ref := range refs {
		ok, err := ref.Deliver(rec)
		if err != nil {
			core.Diag("logger: handler failed: %v", err)
		}
		if ok {
			accepted = true
		}
	}
	return accepted
}

// log builds a record for the convenience methods, resolving the caller
// when source capture is on. skip is the stack distance to the user's
// call site as seen from core.Caller.
func (l *Logger) log(level core.Level, skip int, msg string) bool {
	if !l.active.Load() {
		return false
	}

	l.mu.RLock()
	floor := l.level
	capture := l.captureSource
	l.mu.RUnlock()
	if level < floor {
		return false
	}

	rec := core.NewRecord(level, msg)
	if capture {
		if ci := core.Caller(skip); ci.Defined {
			rec = rec.WithSource(ci.Module, ci.File, ci.Line)
		}
	}
	return l.Log(rec)
}

// callerSkip is the frame distance from core.Caller up to the caller of
// a convenience method: Caller, log, the convenience method, the user.
const callerSkip = 3

// Trace logs a message at trace level.
func (l *Logger) Trace(msg string) bool { return l.log(core.TraceLevel, callerSkip, msg) }

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string) bool { return l.log(core.DebugLevel, callerSkip, msg) }

// Info logs a message at info level.
func (l *Logger) Info(msg string) bool { return l.log(core.InfoLevel, callerSkip, msg) }

// Success logs a message at success level.
func (l *Logger) Success(msg string) bool { return l.log(core.SuccessLevel, callerSkip, msg) }

// Warn logs a message at warning level.
func (l *Logger) Warn(msg string) bool { return l.log(core.WarningLevel, callerSkip, msg) }

// Error logs a message at error level.
func (l *Logger) Error(msg string) bool { return l.log(core.ErrorLevel, callerSkip, msg) }

// Critical logs a message at critical level.
func (l *Logger) Critical(msg string) bool { return l.log(core.CriticalLevel, callerSkip, msg) }

// Tracef logs a formatted message at trace level.
func (l *Logger) Tracef(format string, args ...any) bool {
	return l.log(core.TraceLevel, callerSkip, fmt.Sprintf(format, args...))
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...any) bool {
	return l.log(core.DebugLevel, callerSkip, fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...any) bool {
	return l.log(core.InfoLevel, callerSkip, fmt.Sprintf(format, args...))
}

// Successf logs a formatted message at success level.
func (l *Logger) Successf(format string, args ...any) bool {
	return l.log(core.SuccessLevel, callerSkip, fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at warning level.
func (l *Logger) Warnf(format string, args ...any) bool {
	return l.log(core.WarningLevel, callerSkip, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...any) bool {
	return l.log(core.ErrorLevel, callerSkip, fmt.Sprintf(format, args...))
}

// Criticalf logs a formatted message at critical level.
func (l *Logger) Criticalf(format string, args ...any) bool {
	return l.log(core.CriticalLevel, callerSkip, fmt.Sprintf(format, args...))
}

// Flush pushes pending output out. In async mode it enqueues a flush
// command and reports acceptance; in sync mode it flushes every handler
// directly.
func (l *Logger) Flush() bool {
	l.mu.RLock()
	pool := l.pool
	refs := l.handlers
	l.mu.RUnlock()

	if pool != nil {
		return pool.Flush()
	}
	for _, ref := range refs {
		if err := ref.Flush(); err != nil {
			core.Diag("logger: handler flush failed: %v", err)
		}
	}
	return true
}

// Close shuts down the async pool, if any, draining accepted records,
// then closes every handler. The first handler error is returned;
// later ones are reported to the diagnostics logger.
func (l *Logger) Close() error {
	l.active.Store(false)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pool != nil {
		l.pool.Shutdown()
		l.pool = nil
	}

	var first error
	for _, ref := range l.handlers {
		if err := ref.Close(); err != nil {
			if first == nil {
				first = err
			} else {
				core.Diag("logger: handler close failed: %v", err)
			}
		}
	}
	return first
}
