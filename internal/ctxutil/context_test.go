package ctxutil

import (
	"context"
	"testing"
)

func TestContextValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if GetUserID(ctx) != "" || GetChatID(ctx) != "" {
		t.Fatal("empty context should carry no IDs")
	}
	if _, ok := GetRequestID(ctx); ok {
		t.Fatal("empty context should carry no request ID")
	}

	ctx = WithUserID(ctx, "U123")
	ctx = WithChatID(ctx, "G456")
	ctx = WithRequestID(ctx, "01HEVENT")

	if got := GetUserID(ctx); got != "U123" {
		t.Errorf("GetUserID() = %q, want U123", got)
	}
	if got := GetChatID(ctx); got != "G456" {
		t.Errorf("GetChatID() = %q, want G456", got)
	}
	if got, ok := GetRequestID(ctx); !ok || got != "01HEVENT" {
		t.Errorf("GetRequestID() = %q, %v", got, ok)
	}
}

func TestContextValues_Override(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), "U1")
	child := WithUserID(ctx, "U2")

	if GetUserID(ctx) != "U1" {
		t.Error("parent must be unchanged")
	}
	if GetUserID(child) != "U2" {
		t.Error("child should see the newer value")
	}
}

func TestKeysDoNotCollide(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // plain string key on purpose
	ctx := context.WithValue(context.Background(), "ctxutil.userID", "intruder")
	if got := GetUserID(ctx); got != "" {
		t.Errorf("GetUserID() = %q, want empty for a foreign string key", got)
	}
}
