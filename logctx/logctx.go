// Package logctx carries log metadata on a context.Context and provides
// request ids and timed scopes built on top of it.
package logctx

import (
	"context"

	"github.com/google/uuid"

	"github.com/j-raghavan/goguru/core"
)

type ctxKey struct{}

// frame is one pushed metadata layer. Frames form a linked list from
// innermost to outermost, so pushing never copies earlier layers and a
// context remains immutable for its parent.
type frame struct {
	parent *frame
	data   map[string]string
}

// With returns a context carrying key=value on top of any metadata the
// context already holds.
func With(ctx context.Context, key, value string) context.Context {
	return WithMap(ctx, map[string]string{key: value})
}

// WithMap pushes a metadata layer. The map is copied; later mutation of
// m does not affect the context.
func WithMap(ctx context.Context, m map[string]string) context.Context {
	if len(m) == 0 {
		return ctx
	}
	data := make(map[string]string, len(m))
	for k, v := range m {
		data[k] = v
	}
	parent, _ := ctx.Value(ctxKey{}).(*frame)
	return context.WithValue(ctx, ctxKey{}, &frame{parent: parent, data: data})
}

// From merges every metadata layer into one map, innermost layers
// winning on key collisions. It returns nil when the context carries no
// metadata.
func From(ctx context.Context) map[string]string {
	top, _ := ctx.Value(ctxKey{}).(*frame)
	if top == nil {
		return nil
	}

	size := 0
	for f := top; f != nil; f = f.parent {
		size += len(f.data)
	}
	out := make(map[string]string, size)
	merge(out, top)
	return out
}

// merge writes outermost layers first so inner values overwrite them.
func merge(out map[string]string, f *frame) {
	if f == nil {
		return
	}
	merge(out, f.parent)
	for k, v := range f.data {
		out[k] = v
	}
}

// Value looks key up across the layers, innermost first.
func Value(ctx context.Context, key string) (string, bool) {
	for f, _ := ctx.Value(ctxKey{}).(*frame); f != nil; f = f.parent {
		if v, ok := f.data[key]; ok {
			return v, true
		}
	}
	return "", false
}

// Apply returns a record enriched with the context's merged metadata.
// Keys already present on the record are not overwritten.
func Apply(ctx context.Context, rec *core.Record) *core.Record {
	for k, v := range From(ctx) {
		if _, ok := rec.Metadata(k); ok {
			continue
		}
		rec = rec.WithMetadata(k, v)
	}
	return rec
}

// RequestID generates a time-ordered identifier suitable for request
// correlation.
func RequestID() string {
	return uuid.Must(uuid.NewV7()).String()
}
