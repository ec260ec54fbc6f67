package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerNotNil(t *testing.T) {
	logger := NewLogger(Config{})
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewLoggerUsesTextHandlerWithInfoLevel(t *testing.T) {
	logger := NewLogger(Config{Format: "text", Level: "info"})

	if enabled := logger.Enabled(context.Background(), slog.LevelInfo); !enabled {
		t.Fatal("expected info level to be enabled")
	}

	if enabled := logger.Enabled(context.Background(), slog.LevelDebug); enabled {
		t.Fatal("expected debug level to be disabled")
	}
}

func TestNewLoggerJSONIncludesServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: "json", Level: "debug", Service: "courtside", Version: "dev", Output: &buf})
	logger.Debug("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if entry[FieldService] != "courtside" || entry[FieldVersion] != "dev" {
		t.Fatalf("expected common fields, got %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	scoped := slog.New(slog.NewTextHandler(&buf, nil))
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := WithLogger(context.Background(), scoped)
	FromContext(ctx, fallback).Info("scoped")
	if !strings.Contains(buf.String(), "scoped") {
		t.Fatalf("expected scoped logger to be returned")
	}

	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatalf("expected fallback when no logger stored")
	}
}

func TestHelpersAreNilSafe(t *testing.T) {
	Debug(nil, "noop")
	Info(nil, "noop")
	Warn(nil, "noop")
	Error(nil, "noop", nil)
}

func TestErrorHelperAddsErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Error(logger, "push failed", errors.New("HTTP 500"), FieldDirection, "push")
	out := buf.String()
	if !strings.Contains(out, `error="HTTP 500"`) || !strings.Contains(out, "direction=push") {
		t.Fatalf("expected error and direction fields, got %s", out)
	}

	buf.Reset()
	Error(logger, "no cause", nil)
	if strings.Contains(buf.String(), "error=") {
		t.Fatalf("expected no error field for nil err, got %s", buf.String())
	}
}

func TestDebugHelperRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Debug(slog.New(slog.NewTextHandler(&buf, nil)), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug suppressed at info level, got %s", buf.String())
	}
	Debug(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), "shown", FieldKey, "players")
	if !strings.Contains(buf.String(), "key=players") {
		t.Fatalf("expected debug line, got %s", buf.String())
	}
}
