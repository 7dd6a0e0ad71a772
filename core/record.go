package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// unknownSource is used when a record carries no source location.
const unknownSource = "unknown"

// Record is one immutable log event. Level and timestamp never change
// after construction; metadata only grows through WithMetadata, which
// returns a new record instead of mutating the receiver, so a Record can
// be shared freely between the logger, the async workers and handlers.
type Record struct {
	level     Level
	message   string
	module    string
	file      string
	line      int
	timestamp time.Time
	metadata  map[string]string
}

// NewRecord creates a record with the current timestamp, no source
// location and empty metadata.
func NewRecord(level Level, message string) *Record {
	return &Record{
		level:     level,
		message:   message,
		module:    unknownSource,
		file:      unknownSource,
		timestamp: time.Now(),
	}
}

// WithSource returns a copy of the record carrying the given source
// location. Empty module/file fall back to "unknown".
func (r *Record) WithSource(module, file string, line int) *Record {
	nr := r.clone()
	if module != "" {
		nr.module = module
	}
	if file != "" {
		nr.file = file
	}
	nr.line = line
	return nr
}

// WithMetadata returns a copy of the record with the key set. Setting an
// existing key overwrites its value in the copy only.
func (r *Record) WithMetadata(key, value string) *Record {
	nr := r.clone()
	if nr.metadata == nil {
		nr.metadata = make(map[string]string, 4)
	}
	nr.metadata[key] = value
	return nr
}

// WithStructuredData JSON-encodes v and stores it under key.
func (r *Record) WithStructuredData(key string, v any) (*Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode structured data for %q: %w", key, err)
	}
	return r.WithMetadata(key, string(data)), nil
}

func (r *Record) clone() *Record {
	nr := *r
	if r.metadata != nil {
		nr.metadata = make(map[string]string, len(r.metadata)+1)
		for k, v := range r.metadata {
			nr.metadata[k] = v
		}
	}
	return &nr
}

// Level returns the record's severity.
func (r *Record) Level() Level { return r.level }

// Message returns the log message.
func (r *Record) Message() string { return r.message }

// Module returns the originating module, or "unknown".
func (r *Record) Module() string { return r.module }

// File returns the originating source file, or "unknown".
func (r *Record) File() string { return r.file }

// Line returns the originating line number, or 0.
func (r *Record) Line() int { return r.line }

// Timestamp returns the capture time.
func (r *Record) Timestamp() time.Time { return r.timestamp }

// MetadataMap returns the record's metadata. Callers must not modify the
// returned map.
func (r *Record) MetadataMap() map[string]string { return r.metadata }

// Metadata returns the value for key, if present.
func (r *Record) Metadata(key string) (string, bool) {
	v, ok := r.metadata[key]
	return v, ok
}

func (r *Record) String() string {
	return fmt.Sprintf("[%s] %s %s:%d - %s",
		r.timestamp.Format("2006-01-02 15:04:05.000"),
		r.level, r.file, r.line, r.message)
}
