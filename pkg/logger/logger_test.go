package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestCloudRunHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerWriter(slog.LevelInfo, &buf)).With("request_id", "r1")

	log.Warn("payment skipped", "payment_id", "p1")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if event["severity"] != "WARNING" || event["message"] != "payment skipped" {
		t.Fatalf("unexpected event: %v", event)
	}
	data, _ := event["data"].(map[string]any)
	if data["payment_id"] != "p1" || data["request_id"] != "r1" {
		t.Fatalf("attributes missing from data: %v", event["data"])
	}
}

func TestCloudRunHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerWriter(slog.LevelWarn, &buf))

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info record written at warn level: %q", buf.String())
	}
}

func TestNewParsesLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		var got slog.Level
		New(in, func(l slog.Level) slog.Handler {
			got = l
			return NewTestHandler(l)
		})
		if got != want {
			t.Fatalf("level %q = %v, want %v", in, got, want)
		}
	}
}

func TestContextHelpers(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Fatalf("expected default logger without one in context")
	}

	var buf bytes.Buffer
	base := slog.New(NewCloudRunHandlerWriter(slog.LevelDebug, &buf))
	ctx := ToContext(context.Background(), base)
	if !IsDebugEnabled(ctx) {
		t.Fatalf("expected debug enabled")
	}

	log, ctx := With(ctx, "developer", "Ada")
	if FromContext(ctx) != log {
		t.Fatalf("With did not store the derived logger")
	}
}

func TestCloudRunHandlerRendersErrors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerWriter(slog.LevelInfo, &buf))

	log.Error("recompute failed", "error", errors.New("store offline"))

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	data, _ := event["data"].(map[string]any)
	if data["error"] != "store offline" {
		t.Fatalf("error attr = %v, want message text", data["error"])
	}
}

func TestMapSeverityBetweenLevels(t *testing.T) {
	if got := mapSeverity(slog.LevelWarn + 2); got != "WARNING" {
		t.Fatalf("severity = %s, want WARNING", got)
	}
	if got := mapSeverity(slog.LevelDebug - 4); got != "DEBUG" {
		t.Fatalf("severity = %s, want DEBUG", got)
	}
}
