// Package errors provides domain-specific error types and sentinel errors
// shared by the bot core and its provider clients.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is() to check these.
var (
	// ErrNotConfigured indicates no backend is configured for an operation.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrEmptyResponse indicates a provider answered with no usable content.
	ErrEmptyResponse = errors.New("empty provider response")

	// ErrMalformedResponse indicates a provider answered with content that could not be parsed.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// ProviderError reports a failed call to an external completion, weather or
// creature provider. It never reaches the end user; handlers turn it into a
// fixed apology.
type ProviderError struct {
	Provider string // e.g. "gemini", "openai", "open-meteo"
	Op       string // e.g. "generate_puzzle", "lookup_weather"
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("provider %s (%s): %v", e.Op, e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err as a ProviderError. Returns nil if err is nil.
func NewProviderError(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}
