package async

import (
	"time"

	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/handler"
)

const (
	// DefaultQueueSize is the bounded channel capacity.
	DefaultQueueSize = 10000
	// DefaultBatchSize is the number of records flushed together.
	DefaultBatchSize = 32
	// DefaultFlushInterval bounds the latency of a partially filled batch.
	DefaultFlushInterval = 100 * time.Millisecond
	// DefaultWorkers is the worker goroutine count.
	DefaultWorkers = 1
)

// Builder assembles a worker pool. Zero values get the documented
// defaults at Build time.
type Builder struct {
	queueSize     int
	handlers      []*handler.Ref
	level         core.Level
	workers       int
	batchSize     int
	flushInterval time.Duration
}

// NewBuilder creates a builder with the default configuration.
func NewBuilder() *Builder {
	return &Builder{
		queueSize:     DefaultQueueSize,
		level:         core.InfoLevel,
		workers:       DefaultWorkers,
		batchSize:     DefaultBatchSize,
		flushInterval: DefaultFlushInterval,
	}
}

// WithQueueSize sets the bounded channel capacity, the backpressure knob:
// a full queue rejects submissions instead of blocking producers.
func (b *Builder) WithQueueSize(n int) *Builder {
	if n > 0 {
		b.queueSize = n
	}
	return b
}

// WithHandlers sets the handler fan-out set.
func (b *Builder) WithHandlers(handlers []*handler.Ref) *Builder {
	b.handlers = handlers
	return b
}

// WithLevel sets the worker pool's own severity floor.
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithWorkers sets the worker goroutine count. With more than one worker
// batches are no longer globally ordered across workers.
func (b *Builder) WithWorkers(n int) *Builder {
	if n > 0 {
		b.workers = n
	}
	return b
}

// WithBatchSize sets how many records are flushed together.
func (b *Builder) WithBatchSize(n int) *Builder {
	if n > 0 {
		b.batchSize = n
	}
	return b
}

// WithFlushInterval sets the time-based flush trigger and the worker's
// receive timeout.
func (b *Builder) WithFlushInterval(d time.Duration) *Builder {
	if d > 0 {
		b.flushInterval = d
	}
	return b
}

// Build spawns the workers and returns the producer handle. The handle
// and its running flag are the only state the caller retains.
func (b *Builder) Build() *Handle {
	h := &Handle{
		queue:   make(chan Command, b.queueSize),
		workers: b.workers,
	}
	h.running.Store(true)

	// Workers share the receiving end of the one bounded channel.
	handlers := make([]*handler.Ref, len(b.handlers))
	copy(handlers, b.handlers)

	for i := 0; i < b.workers; i++ {
		w := &worker{
			queue:         h.queue,
			handlers:      handlers,
			level:         b.level,
			queued:        &h.queued,
			batchSize:     b.batchSize,
			flushInterval: b.flushInterval,
		}
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			w.run()
		}()
	}

	return h
}
