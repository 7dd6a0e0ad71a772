// Package handler defines the sink capability interface and the concrete
// sinks: console, file (with rotation), network (msgpack over
// tcp/tls/udp), null and a log/slog bridge. Shared handlers are accessed
// through Ref, a read-write-locked reference that performs the per-call
// enabled/level/filter gating for both the synchronous and the batched
// delivery paths.
package handler
