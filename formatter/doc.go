// Package formatter renders core.Record values into bytes. The text
// formatter follows a {token}-based pattern compiled at construction; the
// JSON formatter emits one object per line. Both share a buffer pool to
// keep the hot path allocation-free.
package formatter
