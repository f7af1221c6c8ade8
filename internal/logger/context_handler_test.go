package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/garyellow/umigame-linebot-go/internal/ctxutil"
)

func TestContextHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ctx    func(context.Context) context.Context
		want   []string
		absent []string
	}{
		{
			name: "all tracing values",
			ctx: func(ctx context.Context) context.Context {
				ctx = ctxutil.WithUserID(ctx, "U12345")
				ctx = ctxutil.WithChatID(ctx, "G67890")
				return ctxutil.WithRequestID(ctx, "01HEVENT")
			},
			want: []string{`"user_id":"U12345"`, `"chat_id":"G67890"`, `"request_id":"01HEVENT"`},
		},
		{
			name: "user only",
			ctx: func(ctx context.Context) context.Context {
				return ctxutil.WithUserID(ctx, "U99999")
			},
			want:   []string{`"user_id":"U99999"`},
			absent: []string{"chat_id", "request_id"},
		},
		{
			name:   "empty context",
			ctx:    func(ctx context.Context) context.Context { return ctx },
			absent: []string{"user_id", "chat_id", "request_id"},
		},
		{
			name: "empty values are skipped",
			ctx: func(ctx context.Context) context.Context {
				ctx = ctxutil.WithUserID(ctx, "")
				return ctxutil.WithChatID(ctx, "C12345")
			},
			want:   []string{`"chat_id":"C12345"`},
			absent: []string{"user_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))
			log.InfoContext(tt.ctx(context.Background()), "routing message", "intent", "janken")

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("expected %s in output: %s", want, output)
				}
			}
			for _, key := range tt.absent {
				if strings.Contains(output, `"`+key+`"`) {
					t.Errorf("unexpected %s in output: %s", key, output)
				}
			}
			if !strings.Contains(output, `"intent":"janken"`) {
				t.Errorf("explicit attribute lost: %s", output)
			}
		})
	}
}

func TestContextHandler_Enabled(t *testing.T) {
	t.Parallel()

	handler := NewContextHandler(slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := context.Background()

	if handler.Enabled(ctx, slog.LevelDebug) {
		t.Error("debug should be below threshold")
	}
	if !handler.Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be enabled")
	}
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewContextHandler(slog.NewJSONHandler(&buf, nil)).
		WithAttrs([]slog.Attr{slog.String("module", "umigame")}).
		WithGroup("session")

	ctx := ctxutil.WithUserID(context.Background(), "U1")
	slog.New(handler).InfoContext(ctx, "game started", "turns", 0)

	output := buf.String()
	for _, want := range []string{`"module":"umigame"`, `"session":{`, `"turns":0`, `"user_id":"U1"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
	if _, ok := handler.(*ContextHandler); !ok {
		t.Errorf("derived handler should stay a ContextHandler, got %T", handler)
	}
}
