package formatter

import (
	"bytes"
	"sort"
	"strconv"
	"time"

	"github.com/j-raghavan/goguru/core"
)

// JSONFormatter renders records as single-line JSON objects. The JSON is
// built by hand into a pooled buffer to avoid reflection and intermediate
// maps.
type JSONFormatter struct {
	cfg Config
}

// NewJSONFormatter creates a JSON formatter from cfg.
func NewJSONFormatter(cfg Config) *JSONFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339Nano
	}
	return &JSONFormatter{cfg: cfg}
}

// Format renders the record as a JSON object terminated by a newline.
func (f *JSONFormatter) Format(rec *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	buf.WriteString(`{"time":"`)
	buf.Write(rec.Timestamp().AppendFormat(buf.AvailableBuffer(), f.cfg.TimestampFormat))

	buf.WriteString(`","level":"`)
	buf.WriteString(rec.Level().String())

	buf.WriteString(`","message":"`)
	appendJSONString(buf, rec.Message())

	buf.WriteString(`","module":"`)
	appendJSONString(buf, rec.Module())

	buf.WriteString(`","file":"`)
	appendJSONString(buf, rec.File())

	buf.WriteString(`","line":`)
	buf.WriteString(strconv.Itoa(rec.Line()))

	if md := rec.MetadataMap(); len(md) > 0 {
		buf.WriteString(`,"metadata":{`)
		keys := make([]string, 0, len(md))
		for k := range md {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			appendJSONString(buf, k)
			buf.WriteString(`":"`)
			appendJSONString(buf, md[k])
			buf.WriteByte('"')
		}
		buf.WriteByte('}')
	}

	buf.WriteString("}\n")

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// appendJSONString writes a JSON-escaped string (without surrounding quotes) to the buffer
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		if start < i {
			buf.WriteString(s[start:i])
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexChars[c>>4])
			buf.WriteByte(hexChars[c&0x0f])
		}
		start = i + 1
	}
	if start < len(s) {
		buf.WriteString(s[start:])
	}
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}
