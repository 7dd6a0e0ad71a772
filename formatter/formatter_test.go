package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/j-raghavan/goguru/core"
)

func testRecord() *core.Record {
	return core.NewRecord(core.InfoLevel, "test message").
		WithSource("mypkg", "main.go", 42)
}

func TestTextFormatterDefaultPattern(t *testing.T) {
	f := NewTextFormatter(Config{})
	out, err := f.Format(testRecord())
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "INFO") {
		t.Errorf("missing level in %q", s)
	}
	if !strings.Contains(s, "main.go:42") {
		t.Errorf("missing location in %q", s)
	}
	if !strings.Contains(s, "test message") {
		t.Errorf("missing message in %q", s)
	}
	if !strings.HasSuffix(s, "\n") {
		t.Errorf("output not newline-terminated: %q", s)
	}
}

func TestTextFormatterCustomPattern(t *testing.T) {
	f := NewTextFormatter(Config{Pattern: "{level} - {message}"})
	out, _ := f.Format(testRecord())
	if !strings.HasPrefix(string(out), "INFO - test message") {
		t.Errorf("output = %q", out)
	}
}

func TestTextFormatterModuleToken(t *testing.T) {
	f := NewTextFormatter(Config{Pattern: "{module}/{file}"})
	out, _ := f.Format(testRecord())
	if !strings.HasPrefix(string(out), "mypkg/main.go") {
		t.Errorf("output = %q", out)
	}
}

func TestTextFormatterUnknownToken(t *testing.T) {
	f := NewTextFormatter(Config{Pattern: "{bogus} {message}"})
	out, _ := f.Format(testRecord())
	if !strings.HasPrefix(string(out), "{bogus} test message") {
		t.Errorf("output = %q", out)
	}
}

func TestTextFormatterTrailingMetadata(t *testing.T) {
	f := NewTextFormatter(Config{Pattern: "{message}"})
	rec := testRecord().WithMetadata("b", "2").WithMetadata("a", "1")
	out, _ := f.Format(rec)
	// Sorted keys for stable output.
	if !strings.Contains(string(out), "a=1 b=2") {
		t.Errorf("output = %q", out)
	}
}

func TestTextFormatterMetadataToken(t *testing.T) {
	f := NewTextFormatter(Config{Pattern: "<{metadata}> {message}"})
	rec := testRecord().WithMetadata("k", "v")
	out, _ := f.Format(rec)
	if !strings.HasPrefix(string(out), "<k=v> test message") {
		t.Errorf("output = %q", out)
	}
}

func TestTextFormatterColors(t *testing.T) {
	f := NewTextFormatter(Config{Pattern: "{level}", Colors: true})
	out, _ := f.Format(core.NewRecord(core.ErrorLevel, "x"))
	s := string(out)
	if !strings.Contains(s, "\x1b[31m") || !strings.Contains(s, "\x1b[0m") {
		t.Errorf("expected ANSI color codes in %q", s)
	}
}

func TestJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(Config{})
	rec := testRecord().WithMetadata("key", "value")
	out, err := f.Format(rec)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	var parsed struct {
		Time     string            `json:"time"`
		Level    string            `json:"level"`
		Message  string            `json:"message"`
		Module   string            `json:"module"`
		File     string            `json:"file"`
		Line     int               `json:"line"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if parsed.Level != "INFO" || parsed.Message != "test message" {
		t.Errorf("parsed = %+v", parsed)
	}
	if parsed.File != "main.go" || parsed.Line != 42 {
		t.Errorf("location = %s:%d", parsed.File, parsed.Line)
	}
	if parsed.Metadata["key"] != "value" {
		t.Errorf("metadata = %v", parsed.Metadata)
	}
}

func TestJSONFormatterEscaping(t *testing.T) {
	f := NewJSONFormatter(Config{})
	rec := core.NewRecord(core.InfoLevel, "line1\nline2 \"quoted\" \\slash\ttab")
	out, err := f.Format(rec)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("escaped output is not valid JSON: %v\n%s", err, out)
	}
	if parsed["message"] != "line1\nline2 \"quoted\" \\slash\ttab" {
		t.Errorf("round-tripped message = %q", parsed["message"])
	}
}

func BenchmarkTextFormatter(b *testing.B) {
	f := NewTextFormatter(Config{})
	rec := testRecord().WithMetadata("key", "value")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format(rec)
	}
}

func BenchmarkJSONFormatter(b *testing.B) {
	f := NewJSONFormatter(Config{})
	rec := testRecord().WithMetadata("key", "value")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format(rec)
	}
}
