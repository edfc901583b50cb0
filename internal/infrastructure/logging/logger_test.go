package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/casos-demo/casos-core/internal/infrastructure/config"
)

func TestNew_Outputs(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", "discard", ""} {
		t.Run(output, func(t *testing.T) {
			logger := New(config.LoggingConfig{Level: "info", Format: "json", Output: output}, "1.0.0")
			if logger == nil {
				t.Fatal("expected non-nil logger")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{name: "debug level", input: "debug", expected: slog.LevelDebug},
		{name: "info level", input: "info", expected: slog.LevelInfo},
		{name: "warn level", input: "warn", expected: slog.LevelWarn},
		{name: "warning level", input: "warning", expected: slog.LevelWarn},
		{name: "error level", input: "error", expected: slog.LevelError},
		{name: "unknown defaults to info", input: "unknown", expected: slog.LevelInfo},
		{name: "empty defaults to info", input: "", expected: slog.LevelInfo},
		{name: "case insensitive", input: "DEBUG", expected: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNewWithWriter_DefaultFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LoggingConfig{Level: "info", Format: "json"}, "v-test")

	logger.Info("caso created", "id", "abc")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	if entry["service"] != "casos" {
		t.Errorf("service = %v, want casos", entry["service"])
	}
	if entry["version"] != "v-test" {
		t.Errorf("version = %v, want v-test", entry["version"])
	}
	if entry["msg"] != "caso created" {
		t.Errorf("msg = %v, want 'caso created'", entry["msg"])
	}
	if entry["id"] != "abc" {
		t.Errorf("id = %v, want abc", entry["id"])
	}
}

func TestNewWithWriter_TextFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LoggingConfig{Level: "warn", Format: "text"}, "1.0.0")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(out, "msg=shown") {
		t.Errorf("expected text-format entry, got %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LoggingConfig{Level: "info"}, "1.0.0")
	child := logger.With("component", "mqtt")

	if child == logger {
		t.Error("expected child logger to be different from parent")
	}

	child.Info("connected")
	if !strings.Contains(buf.String(), `"component":"mqtt"`) {
		t.Errorf("child logger output missing component: %s", buf.String())
	}
}

func TestDefaultAndDiscard(t *testing.T) {
	if Default() == nil {
		t.Fatal("expected non-nil default logger")
	}
	if Discard() == nil {
		t.Fatal("expected non-nil discard logger")
	}
}
