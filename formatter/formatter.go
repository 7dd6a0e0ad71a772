package formatter

import (
	"bytes"
	"sync"

	"github.com/j-raghavan/goguru/core"
)

// Formatter renders a log record into bytes ready for a sink.
type Formatter interface {
	Format(rec *core.Record) ([]byte, error)
}

// Config holds common formatter configuration
type Config struct {
	// Pattern controls the rendered layout. Supported tokens: {time},
	// {level}, {message}, {module}, {file}, {line}, {metadata}.
	// Empty means the default pattern. Only the text formatter uses it.
	Pattern string
	// Colors enables ANSI coloring of the level token
	Colors bool
	// TimestampFormat specifies the time layout (empty for the default)
	TimestampFormat string
}

// DefaultPattern is used when Config.Pattern is empty.
const DefaultPattern = "[{time}] {level} {file}:{line} - {message}"

// DefaultTimestampFormat is used when Config.TimestampFormat is empty.
const DefaultTimestampFormat = "2006-01-02 15:04:05.000"

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}
