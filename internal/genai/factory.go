// This file contains factory functions for creating the completion chain.
package genai

import (
	"context"
	"log/slog"

	"github.com/garyellow/umigame-linebot-go/internal/metrics"
)

// NewCompleter builds the fallback chain from cfg: every model of the first
// configured provider, then every model of the next, and so on.
// Returns nil if no provider has an API key.
func NewCompleter(ctx context.Context, cfg LLMConfig, m *metrics.Metrics) (*FallbackCompleter, error) {
	chain := []Completer{}

	for _, provider := range cfg.ConfiguredProviders() {
		pc := cfg.GetProviderConfig(provider)
		models := pc.Models
		if len(models) == 0 {
			models = defaultModels(provider)
		}

		for _, model := range models {
			var (
				c   Completer
				err error
			)
			switch {
			case provider == ProviderGemini:
				var gc *geminiCompleter
				gc, err = newGeminiCompleter(ctx, pc.APIKey, model, pc.BaseURL)
				if gc != nil {
					c = gc
				}
			case provider.IsOpenAICompatible():
				var oc *openaiCompleter
				oc, err = newOpenAICompleter(provider, pc.APIKey, model, pc.BaseURL)
				if oc != nil {
					c = oc
				}
			}
			if err != nil {
				slog.WarnContext(ctx, "failed to create completer",
					"provider", provider,
					"model", model,
					"error", err)
				continue
			}
			if c != nil {
				chain = append(chain, c)
			}
		}
	}

	if len(chain) == 0 {
		slog.InfoContext(ctx, "no LLM provider configured")
		return nil, nil //nolint:nilnil // Intentional: LLM features disabled
	}

	slog.InfoContext(ctx, "LLM completer configured",
		"primary", chain[0].Provider(),
		"model", chain[0].Model(),
		"chain_size", len(chain))

	return NewFallbackCompleter(cfg.RetryConfig, m, chain...), nil
}

func defaultModels(p Provider) []string {
	switch p {
	case ProviderGemini:
		return DefaultGeminiModels
	case ProviderOpenAI:
		return DefaultOpenAIModels
	case ProviderGroq:
		return DefaultGroqModels
	default:
		return nil
	}
}

// DefaultLLMConfig returns a default LLM configuration.
// API keys must be provided separately.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Providers:   DefaultProviders,
		Gemini:      ProviderConfig{Models: DefaultGeminiModels},
		OpenAI:      ProviderConfig{Models: DefaultOpenAIModels},
		Groq:        ProviderConfig{Models: DefaultGroqModels},
		RetryConfig: DefaultRetryConfig(),
	}
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultMaxRetryAttempts,
		InitialDelay: DefaultInitialRetryDelay,
		MaxDelay:     DefaultMaxRetryDelay,
	}
}
