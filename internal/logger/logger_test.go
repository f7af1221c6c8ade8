package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garyellow/umigame-linebot-go/internal/ctxutil"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.level); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %s", buf.String())
	}

	log.Warn("kept")
	entry := decode(t, &buf)
	if entry["level"] != "warning" {
		t.Errorf("level = %v, want warning", entry["level"])
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter("info", &buf).Info("test message")

	entry := decode(t, &buf)
	for _, field := range []string{"timestamp", "level", "message"} {
		if _, ok := entry[field]; !ok {
			t.Errorf("JSON log missing required field %q", field)
		}
	}
	if entry["message"] != "test message" {
		t.Errorf("message = %v, want %q", entry["message"], "test message")
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want %q", entry["level"], "info")
	}
}

func TestLogger_Fields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter("info", &buf).
		WithModule("webhook").
		WithRequestID("req-123").
		WithError(errors.New("reply token expired")).
		WithField("event_type", "message").
		Error("operation failed")

	entry := decode(t, &buf)
	want := map[string]string{
		"module":     "webhook",
		"request_id": "req-123",
		"error":      "reply token expired",
		"event_type": "message",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestLogger_ContextValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	ctx := ctxutil.WithUserID(context.Background(), "U1")
	ctx = ctxutil.WithChatID(ctx, "U1")
	log.InfoContext(ctx, "routing message")

	entry := decode(t, &buf)
	if entry["user_id"] != "U1" || entry["chat_id"] != "U1" {
		t.Errorf("context values missing: %v", entry)
	}
}

func TestLogger_ShutdownReportsDroppedRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	local := slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: replaceAttr})
	sink := &blockingHandler{release: make(chan struct{})}
	async := NewAsyncHandler(sink, AsyncOptions{BufferSize: 1})
	log := &Logger{Logger: slog.New(async), local: local, async: async}

	for range 5 {
		log.Info("burst")
	}
	close(sink.release)
	if err := log.WithModule("app").Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}

	entry := decode(t, &buf)
	if entry["message"] != "remote log records dropped" || entry["level"] != "warning" {
		t.Errorf("entry = %v", entry)
	}
	if n, _ := entry["count"].(float64); n < 3 {
		t.Errorf("count = %v, want at least 3", entry["count"])
	}
}

func TestLogger_ShutdownWithoutRemote(t *testing.T) {
	t.Parallel()

	log := NewWithWriter("info", io.Discard)
	if err := log.WithModule("app").Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}

	var nilLogger *Logger
	if err := nilLogger.Shutdown(context.Background()); err != nil {
		t.Errorf("nil Shutdown() = %v, want nil", err)
	}
}

func TestLogger_BetterStackKeepsLocalOutput(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	log := NewWithOptions("info", &buf, Options{
		BetterStackToken:    "test-token",
		BetterStackEndpoint: srv.URL,
	})
	if log.async == nil {
		t.Fatal("expected remote pipeline when a token is configured")
	}

	log.WithModule("app").Info("started")

	if entry := decode(t, &buf); entry["module"] != "app" {
		t.Errorf("local output = %v", entry)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := log.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
	if err := log.Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown() = %v", err)
	}
}
