package async

import (
	"sync/atomic"
	"time"

	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/handler"
)

// worker drains the command queue, batches records and fans them out to
// the handler set. It is owned exclusively by its goroutine and
// terminates on a shutdown command.
type worker struct {
	queue         <-chan Command
	handlers      []*handler.Ref
	level         core.Level
	queued        *atomic.Int64
	batchSize     int
	flushInterval time.Duration
}

func (w *worker) run() {
	batch := make([]*core.Record, 0, w.batchSize)
	lastFlush := time.Now()

	timer := time.NewTimer(w.flushInterval)
	defer timer.Stop()

	for {
		select {
		case cmd := <-w.queue:
			switch cmd.op {
			case opLog:
				batch = append(batch, cmd.rec)
				w.queued.Add(-1)
				if len(batch) >= w.batchSize {
					batch = w.flushBatch(batch)
					lastFlush = time.Now()
				}
			case opFlush:
				batch = w.flushBatch(batch)
				w.flushHandlers()
				lastFlush = time.Now()
			case opShutdown:
				// Terminal state: drain, flush, stop.
				w.flushBatch(batch)
				w.flushHandlers()
				return
			}
		case <-timer.C:
			// Liveness flush: bound the latency of a partial batch
			// during low-throughput periods.
			if len(batch) > 0 && time.Since(lastFlush) >= w.flushInterval {
				batch = w.flushBatch(batch)
				lastFlush = time.Now()
			}
			timer.Reset(w.flushInterval)
		}
	}
}

// flushBatch fans the batch out to every handler reference. The worker's
// own severity floor is applied first; per-handler level and filter
// gating happens inside DeliverBatch. Errors are reported to the
// diagnostics logger and never abort the loop.
func (w *worker) flushBatch(batch []*core.Record) []*core.Record {
	if len(batch) == 0 {
		return batch
	}

	n := 0
	for _, rec := range batch {
		if rec.Level() >= w.level {
			batch[n] = rec
			n++
		}
	}
	if n == 0 {
		return batch[:0]
	}

	for _, ref := range w.handlers {
		if err := ref.DeliverBatch(batch[:n]); err != nil {
			core.Diag("async worker: handler batch failed: %v", err)
		}
	}
	return batch[:0]
}

// flushHandlers propagates the flush lifecycle hook.
func (w *worker) flushHandlers() {
	for _, ref := range w.handlers {
		if !ref.Enabled() {
			continue
		}
		if err := ref.Flush(); err != nil {
			core.Diag("async worker: handler flush failed: %v", err)
		}
	}
}
