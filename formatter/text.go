package formatter

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/j-raghavan/goguru/core"
)

// token identifiers for compiled pattern segments
type token int

const (
	tokenLiteral token = iota
	tokenTime
	tokenLevel
	tokenMessage
	tokenModule
	tokenFile
	tokenLine
	tokenMetadata
)

var tokenNames = map[string]token{
	"{time}":     tokenTime,
	"{level}":    tokenLevel,
	"{message}":  tokenMessage,
	"{module}":   tokenModule,
	"{file}":     tokenFile,
	"{line}":     tokenLine,
	"{metadata}": tokenMetadata,
}

type segment struct {
	tok     token
	literal string
}

// TextFormatter renders records as human-readable text following a
// pattern. The pattern is compiled once at construction. If the pattern
// contains no {metadata} token, metadata is appended as trailing
// key=value pairs.
type TextFormatter struct {
	cfg      Config
	segments []segment
	trailing bool // append metadata after the pattern output
}

// NewTextFormatter creates a text formatter from cfg, filling defaults
// for the pattern and timestamp layout.
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = DefaultTimestampFormat
	}
	f := &TextFormatter{cfg: cfg}
	f.segments = compilePattern(cfg.Pattern)
	f.trailing = !strings.Contains(cfg.Pattern, "{metadata}")
	return f
}

// compilePattern splits a pattern into literal and token segments.
func compilePattern(pattern string) []segment {
	var segs []segment
	rest := pattern
	for len(rest) > 0 {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			segs = append(segs, segment{tok: tokenLiteral, literal: rest})
			break
		}
		j := strings.IndexByte(rest[i:], '}')
		if j < 0 {
			segs = append(segs, segment{tok: tokenLiteral, literal: rest})
			break
		}
		name := rest[i : i+j+1]
		tok, ok := tokenNames[name]
		if !ok {
			// Unknown token stays literal, including the braces.
			segs = append(segs, segment{tok: tokenLiteral, literal: rest[:i+j+1]})
			rest = rest[i+j+1:]
			continue
		}
		if i > 0 {
			segs = append(segs, segment{tok: tokenLiteral, literal: rest[:i]})
		}
		segs = append(segs, segment{tok: tok})
		rest = rest[i+j+1:]
	}
	return segs
}

// Format renders the record according to the compiled pattern.
func (f *TextFormatter) Format(rec *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	for _, seg := range f.segments {
		switch seg.tok {
		case tokenLiteral:
			buf.WriteString(seg.literal)
		case tokenTime:
			buf.Write(rec.Timestamp().AppendFormat(buf.AvailableBuffer(), f.cfg.TimestampFormat))
		case tokenLevel:
			if f.cfg.Colors {
				buf.WriteString(rec.Level().Color())
				buf.WriteString(rec.Level().String())
				buf.WriteString(core.ResetColor())
			} else {
				buf.WriteString(rec.Level().String())
			}
		case tokenMessage:
			buf.WriteString(rec.Message())
		case tokenModule:
			buf.WriteString(rec.Module())
		case tokenFile:
			buf.WriteString(rec.File())
		case tokenLine:
			buf.WriteString(strconv.Itoa(rec.Line()))
		case tokenMetadata:
			writeMetadata(buf, rec)
		}
	}

	if f.trailing {
		if md := rec.MetadataMap(); len(md) > 0 {
			buf.WriteByte(' ')
			writeMetadata(buf, rec)
		}
	}
	buf.WriteByte('\n')

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// writeMetadata renders metadata as space-separated key=value pairs with
// keys in sorted order for stable output.
func writeMetadata(buf *bytes.Buffer, rec *core.Record) {
	md := rec.MetadataMap()
	if len(md) == 0 {
		return
	}
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(md[k])
	}
}
