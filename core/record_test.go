package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRecordCreation(t *testing.T) {
	before := time.Now()
	rec := NewRecord(InfoLevel, "test message")
	after := time.Now()

	if rec.Level() != InfoLevel {
		t.Errorf("Level() = %s, want INFO", rec.Level())
	}
	if rec.Message() != "test message" {
		t.Errorf("Message() = %q", rec.Message())
	}
	if rec.Module() != "unknown" || rec.File() != "unknown" || rec.Line() != 0 {
		t.Errorf("expected unknown source defaults, got %s %s:%d", rec.Module(), rec.File(), rec.Line())
	}
	if rec.Timestamp().Before(before) || rec.Timestamp().After(after) {
		t.Error("timestamp not captured at construction time")
	}
}

func TestRecordWithSource(t *testing.T) {
	rec := NewRecord(InfoLevel, "msg").WithSource("mypkg", "main.go", 42)
	if rec.Module() != "mypkg" || rec.File() != "main.go" || rec.Line() != 42 {
		t.Errorf("source = %s %s:%d", rec.Module(), rec.File(), rec.Line())
	}

	// Empty fields keep defaults.
	rec = NewRecord(InfoLevel, "msg").WithSource("", "", 7)
	if rec.Module() != "unknown" || rec.File() != "unknown" || rec.Line() != 7 {
		t.Errorf("source = %s %s:%d", rec.Module(), rec.File(), rec.Line())
	}
}

func TestRecordMetadata(t *testing.T) {
	rec := NewRecord(InfoLevel, "msg").
		WithMetadata("key1", "value1").
		WithMetadata("key2", "value2")

	if v, ok := rec.Metadata("key1"); !ok || v != "value1" {
		t.Errorf("Metadata(key1) = %q, %v", v, ok)
	}
	if v, ok := rec.Metadata("key2"); !ok || v != "value2" {
		t.Errorf("Metadata(key2) = %q, %v", v, ok)
	}
	if _, ok := rec.Metadata("nonexistent"); ok {
		t.Error("Metadata(nonexistent) should not exist")
	}
}

func TestRecordMetadataLastWriteWins(t *testing.T) {
	rec := NewRecord(InfoLevel, "msg").
		WithMetadata("key", "first").
		WithMetadata("key", "second")
	if v, _ := rec.Metadata("key"); v != "second" {
		t.Errorf("Metadata(key) = %q, want second", v)
	}
}

func TestRecordImmutability(t *testing.T) {
	base := NewRecord(InfoLevel, "msg").WithMetadata("a", "1")
	derived := base.WithMetadata("b", "2")

	if _, ok := base.Metadata("b"); ok {
		t.Error("WithMetadata mutated the receiver")
	}
	if _, ok := derived.Metadata("a"); !ok {
		t.Error("derived record lost existing metadata")
	}
	if base.Timestamp() != derived.Timestamp() {
		t.Error("derived record changed the timestamp")
	}
}

func TestRecordStructuredData(t *testing.T) {
	data := map[string]any{"user_id": 123, "action": "login", "success": true}
	rec, err := NewRecord(InfoLevel, "user action").WithStructuredData("user_data", data)
	if err != nil {
		t.Fatalf("WithStructuredData: %v", err)
	}

	stored, ok := rec.Metadata("user_data")
	if !ok {
		t.Fatal("user_data not stored")
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(stored), &parsed); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if parsed["action"] != "login" {
		t.Errorf("parsed action = %v", parsed["action"])
	}
}

func TestRecordStructuredDataError(t *testing.T) {
	if _, err := NewRecord(InfoLevel, "msg").WithStructuredData("bad", func() {}); err == nil {
		t.Error("expected error for unserializable value")
	}
}

func TestRecordString(t *testing.T) {
	rec := NewRecord(ErrorLevel, "boom").WithSource("pkg", "main.go", 42)
	s := rec.String()
	if !strings.Contains(s, "ERROR") || !strings.Contains(s, "main.go:42") || !strings.Contains(s, "boom") {
		t.Errorf("String() = %q", s)
	}
}

func TestCaller(t *testing.T) {
	info := Caller(1)
	if !info.Defined {
		t.Fatal("caller not resolved")
	}
	if info.File != "record_test.go" {
		t.Errorf("File = %q, want record_test.go", info.File)
	}
	if info.Line == 0 {
		t.Error("Line = 0")
	}
	if !strings.Contains(info.Module, "core") {
		t.Errorf("Module = %q, want core package path", info.Module)
	}
}
