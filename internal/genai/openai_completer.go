// This file contains the OpenAI-compatible completer.
// It works with any OpenAI-compatible provider (OpenAI, Groq) via custom BaseURL.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	domerrors "github.com/garyellow/umigame-linebot-go/internal/errors"
)

type openaiCompleter struct {
	client   openai.Client
	model    string
	provider Provider
}

// newOpenAICompleter creates an OpenAI-compatible completer.
// Returns nil if apiKey is empty (provider disabled).
// An empty baseURL selects ProviderEndpoint[provider].
func newOpenAICompleter(provider Provider, apiKey, model, baseURL string) (*openaiCompleter, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if baseURL == "" {
		var ok bool
		baseURL, ok = ProviderEndpoint[provider]
		if !ok {
			return nil, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
		}
	}
	if model == "" {
		return nil, fmt.Errorf("no model configured for provider: %s", provider)
	}

	// Retries are handled by the fallback chain.
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &openaiCompleter{
		client:   client,
		model:    model,
		provider: provider,
	}, nil
}

func (c *openaiCompleter) Complete(ctx context.Context, req Request) (*Completion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "chat completion API call failed",
			"provider", c.provider,
			"model", c.model,
			"operation", req.Operation,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, WrapError(fmt.Errorf("chat completion failed: %w", err), c.provider)
	}

	if len(resp.Choices) == 0 {
		return nil, domerrors.ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, domerrors.ErrEmptyResponse
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "chat completion finished",
			"provider", c.provider,
			"model", c.model,
			"operation", req.Operation,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"duration_ms", duration.Milliseconds())
	}

	return &Completion{Text: text, ID: resp.ID}, nil
}

func (c *openaiCompleter) Provider() Provider {
	return c.provider
}

func (c *openaiCompleter) Model() string {
	return c.model
}

// Close releases resources. The openai-go client doesn't require cleanup.
func (c *openaiCompleter) Close() error {
	return nil
}
