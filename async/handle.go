package async

import (
	"sync"
	"sync/atomic"

	"github.com/j-raghavan/goguru/core"
)

// Handle is the producer side of a worker pool. It is safe to share
// between goroutines. Log and Flush never block: when the pool is not
// running or the bounded queue is full they drop the work and return
// false. Shutdown is the one blocking call; it guarantees delivery of the
// termination signal and waits for the workers to drain.
type Handle struct {
	queue   chan Command
	running atomic.Bool
	queued  atomic.Int64
	workers int

	wg       sync.WaitGroup
	shutOnce sync.Once
}

// Log enqueues a record. It returns false immediately when the pool is
// not running or the queue is full; a false return means the record was
// dropped.
func (h *Handle) Log(rec *core.Record) bool {
	if !h.running.Load() {
		return false
	}
	select {
	case h.queue <- Command{op: opLog, rec: rec}:
		h.queued.Add(1)
		return true
	default:
		return false
	}
}

// Flush enqueues a flush command under the same non-blocking semantics as
// Log. A true return only means the command was accepted; it will be
// processed in order with previously enqueued records.
func (h *Handle) Flush() bool {
	if !h.running.Load() {
		return false
	}
	select {
	case h.queue <- Command{op: opFlush}:
		return true
	default:
		return false
	}
}

// Shutdown stops the pool. It flips the running flag so subsequent Log
// and Flush calls fail fast, then delivers one shutdown command per
// worker with a blocking send and waits for the workers to exit. Every
// record accepted before the call is delivered to its handlers first.
// Shutdown is idempotent.
func (h *Handle) Shutdown() {
	h.shutOnce.Do(func() {
		h.running.Store(false)
		for i := 0; i < h.workers; i++ {
			h.queue <- Command{op: opShutdown}
		}
		h.wg.Wait()
	})
}

// Running reports whether the pool still accepts work.
func (h *Handle) Running() bool {
	return h.running.Load()
}

// QueuedRecords returns the approximate number of records waiting in the
// queue. The counter is advisory; the queue itself is the source of truth.
func (h *Handle) QueuedRecords() int {
	return int(h.queued.Load())
}
