package genai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domerrors "github.com/garyellow/umigame-linebot-go/internal/errors"
)

func TestOpenAICompleter_Complete(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-123",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "test-model",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "  はい、その通りです。  "}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`)
	}))
	defer server.Close()

	c, err := newOpenAICompleter(ProviderGroq, "test-key", "test-model", server.URL+"/")
	if err != nil {
		t.Fatalf("newOpenAICompleter() error: %v", err)
	}

	got, err := c.Complete(context.Background(), Request{
		Operation:   OpYesNo,
		System:      "system",
		Prompt:      "男は船乗りですか",
		Temperature: 0.2,
		MaxTokens:   100,
		JSON:        true,
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got.Text != "はい、その通りです。" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.ID != "chatcmpl-123" {
		t.Errorf("ID = %q", got.ID)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("model = %v", gotBody["model"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2 (system + user)", len(msgs))
	}
	rf, _ := gotBody["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Errorf("response_format = %v", gotBody["response_format"])
	}
}

func TestOpenAICompleter_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error": {"message": "slow down", "type": "rate_limit", "code": "rate_limit"}}`)
	}))
	defer server.Close()

	c, err := newOpenAICompleter(ProviderOpenAI, "k", "m", server.URL+"/")
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Complete(context.Background(), Request{Prompt: "hi"})

	var llmErr *LLMError
	if !errors.As(err, &llmErr) {
		t.Fatalf("expected *LLMError, got %T: %v", err, err)
	}
	if llmErr.StatusCode != http.StatusTooManyRequests || llmErr.Provider != ProviderOpenAI {
		t.Errorf("LLMError = %+v", llmErr)
	}
	if ClassifyError(err) != ActionRetry {
		t.Errorf("429 should be retryable")
	}
}

func TestOpenAICompleter_EmptyChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": "x", "object": "chat.completion", "model": "m", "choices": []}`)
	}))
	defer server.Close()

	c, _ := newOpenAICompleter(ProviderOpenAI, "k", "m", server.URL+"/")
	_, err := c.Complete(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, domerrors.ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewOpenAICompleter_Validation(t *testing.T) {
	t.Parallel()

	c, err := newOpenAICompleter(ProviderGroq, "", "m", "")
	if c != nil || err != nil {
		t.Errorf("empty key should disable the provider, got %v, %v", c, err)
	}
	if _, err := newOpenAICompleter(Provider("unknown"), "k", "m", ""); err == nil {
		t.Error("unknown provider without base URL should fail")
	}
	if _, err := newOpenAICompleter(ProviderGroq, "k", "", ""); err == nil {
		t.Error("missing model should fail")
	}
}

func TestGeminiCompleter_Complete(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "gemini-test:generateContent") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"candidates": [{"content": {"role": "model", "parts": [
				{"text": "考え中", "thought": true},
				{"text": "🍽️ 肉じゃが"}
			]}}],
			"responseId": "resp-42",
			"usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 4, "totalTokenCount": 7}
		}`)
	}))
	defer server.Close()

	c, err := newGeminiCompleter(context.Background(), "test-key", "gemini-test", server.URL+"/")
	if err != nil {
		t.Fatalf("newGeminiCompleter() error: %v", err)
	}

	got, err := c.Complete(context.Background(), Request{
		Operation: OpMeal,
		System:    "献立",
		Prompt:    "今日は？",
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got.Text != "🍽️ 肉じゃが" {
		t.Errorf("Text = %q (thought parts must be skipped)", got.Text)
	}
	if got.ID != "resp-42" {
		t.Errorf("ID = %q", got.ID)
	}
	if _, ok := gotBody["systemInstruction"]; !ok {
		t.Error("system prompt should be sent as systemInstruction")
	}
}

func TestGeminiCompleter_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`)
	}))
	defer server.Close()

	c, err := newGeminiCompleter(context.Background(), "bad", "gemini-test", server.URL+"/")
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Complete(context.Background(), Request{Prompt: "hi"})

	var llmErr *LLMError
	if !errors.As(err, &llmErr) {
		t.Fatalf("expected *LLMError, got %T: %v", err, err)
	}
	if llmErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", llmErr.StatusCode)
	}
	if ClassifyError(err) != ActionFail {
		t.Error("403 should be permanent")
	}
}

func TestNewGeminiCompleter_Defaults(t *testing.T) {
	t.Parallel()

	c, err := newGeminiCompleter(context.Background(), "", "", "")
	if c != nil || err != nil {
		t.Errorf("empty key should disable the provider, got %v, %v", c, err)
	}

	c, err = newGeminiCompleter(context.Background(), "k", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Model() != DefaultGeminiModels[0] || c.Provider() != ProviderGemini {
		t.Errorf("Model/Provider = %s/%s", c.Model(), c.Provider())
	}
}
