package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"default info", "", slog.LevelInfo},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(ctx, tt.enable) {
				t.Fatalf("expected level %s to be enabled", tt.enable)
			}
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	logger := Default()
	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info level")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug level")
	}
	if logger == Default() {
		t.Error("Default() returned the same instance twice")
	}
}

func TestWithTurnAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf).WithTurn("sess-1", "MakeAppointment", "DialogCodeHook")
	logger.Info("turn handled")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["session_id"] != "sess-1" {
		t.Errorf("session_id = %v", entry["session_id"])
	}
	if entry["intent"] != "MakeAppointment" {
		t.Errorf("intent = %v", entry["intent"])
	}
	if entry["invocation_source"] != "DialogCodeHook" {
		t.Errorf("invocation_source = %v", entry["invocation_source"])
	}
}

func TestWithTurnNilReceiver(t *testing.T) {
	var logger *Logger
	child := logger.WithTurn("s", "i", "src")
	if child == nil || child.Logger == nil {
		t.Fatal("expected a usable logger from nil receiver")
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("debug", &buf)
	ctx := WithContext(context.Background(), logger)

	if got := FromContext(ctx, nil); got != logger {
		t.Fatal("expected stored logger")
	}

	fallback := Default()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback logger")
	}
	if got := FromContext(context.Background(), nil); got == nil {
		t.Fatal("expected default logger when no fallback")
	}
}
