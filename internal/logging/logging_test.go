package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pagesnap/pagesnap/internal/logging"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line %q is not JSON: %v", buf.String(), err)
	}
	return entry
}

func TestWriterLogger_EmitsJSONLines(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logging.NewWriterLogger(&buf, "test")

	logger.Info("hello", logging.Field{Key: "url", Value: "http://localhost:3000"})

	entry := decodeLine(t, &buf)
	if entry["level"] != "info" || entry["msg"] != "hello" || entry["component"] != "test" {
		t.Errorf("entry = %v", entry)
	}
	fields, _ := entry["fields"].(map[string]any)
	if fields["url"] != "http://localhost:3000" {
		t.Errorf("fields = %v", fields)
	}
}

func TestWriterLogger_WithPersistsFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logging.NewWriterLogger(&buf, "test")

	child := logger.With(logging.Field{Key: "job_id", Value: "abc"})
	child.Warn("slow render", logging.Field{Key: "budget_ms", Value: 5000})

	entry := decodeLine(t, &buf)
	fields, _ := entry["fields"].(map[string]any)
	if fields["job_id"] != "abc" {
		t.Errorf("persistent field missing from child log line: %v", fields)
	}
	if fields["budget_ms"] != float64(5000) {
		t.Errorf("call fields missing from child log line: %v", fields)
	}

	// Per-call fields shadow persistent ones under the same key.
	buf.Reset()
	child.Info("retitled", logging.Field{Key: "job_id", Value: "def"})
	entry = decodeLine(t, &buf)
	fields, _ = entry["fields"].(map[string]any)
	if fields["job_id"] != "def" {
		t.Errorf("call field did not shadow persistent field: %v", fields)
	}
}
