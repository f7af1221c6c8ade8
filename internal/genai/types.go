// Package genai provides integration with LLM APIs (Gemini, OpenAI and Groq).
// This file contains shared types, interfaces, and configuration.
//
// Architecture:
//   - Gemini: Uses google.golang.org/genai (official SDK)
//   - OpenAI/Groq: Uses github.com/openai/openai-go/v3 (OpenAI-compatible API)
//
// Fallback Strategy (3-layer):
//  1. Model Retry: Same model retried with exponential backoff
//  2. Model Chain: Next model in same provider's model list
//  3. Provider Chain: Next provider in LLM_PROVIDERS list
package genai

import (
	"context"
	"time"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderGemini represents Google's Gemini API (non-OpenAI-compatible).
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI represents OpenAI's Chat Completions API.
	ProviderOpenAI Provider = "openai"
	// ProviderGroq represents Groq's API (OpenAI-compatible, fast inference).
	ProviderGroq Provider = "groq"
)

// ProviderEndpoint defines the base URL for OpenAI-compatible providers.
// Gemini is not included as it uses a different SDK.
var ProviderEndpoint = map[Provider]string{
	ProviderOpenAI: "https://api.openai.com/v1/",
	ProviderGroq:   "https://api.groq.com/openai/v1/",
}

// IsOpenAICompatible returns true if the provider uses OpenAI-compatible API.
func (p Provider) IsOpenAICompatible() bool {
	_, ok := ProviderEndpoint[p]
	return ok
}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// ParseProviders converts names such as "gemini" into Providers, dropping
// unknown names and duplicates while keeping order.
func ParseProviders(names []string) []Provider {
	seen := make(map[Provider]bool, len(names))
	result := make([]Provider, 0, len(names))
	for _, n := range names {
		p := Provider(n)
		switch p {
		case ProviderGemini, ProviderOpenAI, ProviderGroq:
		default:
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result
}

// Request is a single-turn completion request.
type Request struct {
	// Operation labels metrics and logs, e.g. "chat", "puzzle".
	Operation   string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// JSON asks the model for a JSON object response.
	JSON bool
}

// Completion is the text produced for a Request.
type Completion struct {
	Text string
	// ID is the provider-assigned response ID, when the provider returns one.
	ID string
}

// Completer produces one completion for one prompt.
// Implementations: gemini (native SDK), openai-compatible (OpenAI, Groq),
// and the fallback chain that wraps them.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
	// Provider returns the provider type for metrics.
	Provider() Provider
	// Model returns the model name, for logs.
	Model() string
	// Close releases any resources held by the completer.
	Close() error
}

// Puzzle is a lateral-thinking riddle and its hidden solution.
type Puzzle struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Meal is a meal suggestion plus the ID used to attach feedback to it.
type Meal struct {
	Text       string
	TrackingID string
}

// RetryConfig defines retry behavior for LLM API calls.
// Uses AWS-recommended Full Jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 2 (1 initial + 1 retry)
	MaxAttempts int

	// InitialDelay is the base delay before first retry.
	// Default: 500ms
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	// Default: 3s
	MaxDelay time.Duration
}

// ProviderConfig holds configuration for a single LLM provider.
type ProviderConfig struct {
	APIKey string

	// Models is the ordered model chain. First model is primary.
	Models []string

	// BaseURL overrides the provider endpoint. Empty uses the default.
	BaseURL string
}

// LLMConfig holds configuration for all LLM providers.
type LLMConfig struct {
	// Providers is the ordered list of providers to try.
	// Fallback happens in order: first provider's models, then second, etc.
	Providers []Provider

	Gemini ProviderConfig
	OpenAI ProviderConfig
	Groq   ProviderConfig

	RetryConfig RetryConfig
}

// Default model configurations.
// First element is primary model, subsequent elements are fallbacks.
var (
	DefaultGeminiModels = []string{"gemini-2.5-flash", "gemini-2.5-flash-lite"}
	DefaultOpenAIModels = []string{"gpt-4.1-mini", "gpt-4.1-nano"}
	DefaultGroqModels   = []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}

	// DefaultProviders is the default provider order for fallback.
	DefaultProviders = []Provider{ProviderGemini, ProviderOpenAI, ProviderGroq}
)

// Retry configuration defaults
const (
	DefaultMaxRetryAttempts  = 2
	DefaultInitialRetryDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay     = 3 * time.Second
)

// HasProvider returns true if the specified provider is configured with an API key.
func (c *LLMConfig) HasProvider(p Provider) bool {
	pc := c.GetProviderConfig(p)
	return pc != nil && pc.APIKey != ""
}

// GetProviderConfig returns the configuration for a specific provider.
func (c *LLMConfig) GetProviderConfig(p Provider) *ProviderConfig {
	switch p {
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGroq:
		return &c.Groq
	default:
		return nil
	}
}

// ConfiguredProviders returns the list of providers with configured API keys,
// in the order specified by c.Providers.
func (c *LLMConfig) ConfiguredProviders() []Provider {
	result := make([]Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		if c.HasProvider(p) {
			result = append(result, p)
		}
	}
	return result
}
