package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("expected a single JSON log line, got %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: "json"}, &buf, "offctl")

	l.Info("hello", Fields("key", "value"))

	m := decodeLine(t, &buf)
	if m["message"] != "hello" {
		t.Errorf("expected message 'hello', got %v", m["message"])
	}
	if m["key"] != "value" {
		t.Errorf("expected key=value, got %v", m["key"])
	}
	if m[FieldService] != "offctl" {
		t.Errorf("expected service=offctl, got %v", m[FieldService])
	}
	if m["level"] != "info" {
		t.Errorf("expected level info, got %v", m["level"])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: "json"}, &buf, "svc")

	l.Debug("dropped")
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}

	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestNewWithWriter_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "invalid-level", Format: "json"}, &buf, "svc")

	l.Debug("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected debug to be filtered at info, got %q", buf.String())
	}
	l.Info("kept")
	if buf.Len() == 0 {
		t.Error("expected info line")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	// Must not panic and must not write anywhere.
	l.WithComponent("x").WithFields(Fields("a", 1)).Error("ignored")
	l.WithError(errors.New("boom")).Debug("ignored")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf, "svc").WithComponent("httpclient")

	l.Info("tagged")

	m := decodeLine(t, &buf)
	if m[FieldComponent] != "httpclient" {
		t.Errorf("expected component=httpclient, got %v", m[FieldComponent])
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf, "svc").
		WithFields(map[string]interface{}{"endpoint": "/keys"})

	l.Info("with fields")

	m := decodeLine(t, &buf)
	if m["endpoint"] != "/keys" {
		t.Errorf("expected endpoint=/keys, got %v", m["endpoint"])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf, "svc").
		WithError(errors.New("connection refused"))

	l.Error("failed")

	m := decodeLine(t, &buf)
	if m["error"] != "connection refused" {
		t.Errorf("expected error field, got %v", m["error"])
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, &buf, "offctl")

	l.Info("console line")

	out := buf.String()
	if !strings.Contains(out, "[OFF][INF]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
	if !strings.Contains(out, "console line") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp=true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"disabled level", Config{Level: "disabled", Format: "json"}, false},
		{"invalid level", Config{Level: "verbose", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestErrorFields(t *testing.T) {
	m := ErrorFields("GET /keys", errors.New("boom"))
	if m[FieldOperation] != "GET /keys" {
		t.Errorf("expected operation, got %v", m[FieldOperation])
	}
	if m[FieldError] != "boom" {
		t.Errorf("expected error, got %v", m[FieldError])
	}
}

func TestRequestFields(t *testing.T) {
	m := RequestFields("GET", "https://example.org/keys", "req-1", 404, 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500, got %v", m[FieldDuration])
	}
	if m[FieldMethod] != "GET" || m[FieldStatus] != 404 || m[FieldRequestID] != "req-1" {
		t.Errorf("unexpected request fields: %v", m)
	}
}

func TestCallFields(t *testing.T) {
	ok := CallFields("get_keys", 0, "")
	if _, has := ok[FieldKind]; has || ok[FieldOperation] != "get_keys" {
		t.Errorf("expected operation only, got %v", ok)
	}
	failed := CallFields("get_keys", 500, "http")
	if failed[FieldStatus] != 500 || failed[FieldKind] != "http" {
		t.Errorf("unexpected failure fields: %v", failed)
	}
}

func TestMergeWithError(t *testing.T) {
	m := MergeWithError(nil, errors.New("x"))
	if m[FieldError] != "x" {
		t.Errorf("expected error x, got %v", m[FieldError])
	}

	existing := map[string]interface{}{"k": "v"}
	m = MergeWithError(existing, errors.New("y"))
	if m["k"] != "v" || m[FieldError] != "y" {
		t.Errorf("unexpected merge result: %v", m)
	}
}
