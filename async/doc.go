// Package async implements the batched dispatch path: a bounded command
// queue drained by a pool of worker goroutines that group records into
// batches and fan them out to the handler set. Producers never block;
// when the queue is full or the pool has shut down, submissions fail fast
// and the record is dropped. Batches flush on size or after the flush
// interval, whichever comes first, and shutdown drains everything that
// was accepted.
package async
