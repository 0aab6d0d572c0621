package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestPrettyJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	logger.Info("test message", "key", "value", "elapsed", 1500*time.Millisecond, "error", errors.New("boom"))
	output := buf.String()
	t.Logf("Raw output: %q", output)

	if !strings.Contains(output, "\n  \"") {
		t.Errorf("Expected indented JSON, got %s", output)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Output is not valid JSON: %v\nOutput was: %s", err, output)
	}
	if result["msg"] != "test message" {
		t.Errorf("Expected message 'test message', got '%v'", result["msg"])
	}
	if result["key"] != "value" {
		t.Errorf("Expected key 'value', got '%v'", result["key"])
	}
	if result["level"] != "INFO" {
		t.Errorf("Expected level 'INFO', got '%v'", result["level"])
	}
	if result["elapsed"] != "1.5s" {
		t.Errorf("Expected elapsed '1.5s', got '%v'", result["elapsed"])
	}
	if result["error"] != "boom" {
		t.Errorf("Expected error 'boom', got '%v'", result["error"])
	}
}

func TestPrettyJSONHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyJSONHandler(&buf, nil)).
		With("dialect", "sqlite").
		WithGroup("stmt").
		With("kind", "select")

	logger.Info("statement", "params", 2)

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if result["dialect"] != "sqlite" {
		t.Errorf("Expected dialect 'sqlite', got '%v'", result["dialect"])
	}
	if result["stmt.kind"] != "select" {
		t.Errorf("Expected stmt.kind 'select', got '%v'", result["stmt.kind"])
	}
	if result["stmt.params"] != float64(2) {
		t.Errorf("Expected stmt.params 2, got '%v'", result["stmt.params"])
	}
}

func TestPrettyJSONHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger.Debug("hidden")
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected no output below warn, got %s", buf.String())
	}

	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("Expected warn record, got %s", buf.String())
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		check   func(string) bool
		wantErr bool
	}{
		{
			name:  "default json",
			cfg:   Config{},
			check: func(s string) bool { return strings.HasPrefix(s, "{\"time\"") },
		},
		{
			name:  "pretty",
			cfg:   Config{Format: "pretty"},
			check: func(s string) bool { return strings.Contains(s, "\n  ") },
		},
		{
			name:  "text",
			cfg:   Config{Format: "TEXT"},
			check: func(s string) bool { return strings.Contains(s, "msg=hello") },
		},
		{name: "bad format", cfg: Config{Format: "xml"}, wantErr: true},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.cfg.Output = &buf

			logger, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			logger.Info("hello")
			if !tt.check(buf.String()) {
				t.Errorf("unexpected output: %s", buf.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("expected discard logger to be disabled")
	}
}
