// This file contains the fallback chain for cross-model and cross-provider failover.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	domerrors "github.com/garyellow/umigame-linebot-go/internal/errors"
	"github.com/garyellow/umigame-linebot-go/internal/metrics"
)

// FallbackCompleter tries each completer of its chain in order:
//  1. Model retry with backoff (same completer)
//  2. Next completer (next model, then next provider)
//
// Permanent errors skip the remaining retries of that completer but still
// move on to the next one, since another provider has its own key and quota.
type FallbackCompleter struct {
	chain       []Completer
	retryConfig RetryConfig
	metrics     *metrics.Metrics
}

// NewFallbackCompleter creates a completer over chain. m may be nil.
func NewFallbackCompleter(cfg RetryConfig, m *metrics.Metrics, chain ...Completer) *FallbackCompleter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &FallbackCompleter{
		chain:       chain,
		retryConfig: cfg,
		metrics:     m,
	}
}

// Complete returns the first successful completion in the chain.
func (f *FallbackCompleter) Complete(ctx context.Context, req Request) (*Completion, error) {
	if f == nil || len(f.chain) == 0 {
		return nil, domerrors.ErrNotConfigured
	}

	var lastErr error
	for i, c := range f.chain {
		start := time.Now()
		result, err := f.completeWithRetry(ctx, c, req)
		f.metrics.RecordProviderCall(c.Provider().String(), req.Operation, classifyErrorType(err), time.Since(start).Seconds())
		if err == nil {
			if i > 0 {
				f.metrics.RecordProviderFallback(f.chain[0].Provider().String(), c.Provider().String(), req.Operation)
			}
			return result, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		if i+1 < len(f.chain) {
			next := f.chain[i+1]
			slog.WarnContext(ctx, "completer failed, falling back",
				"provider", c.Provider(),
				"model", c.Model(),
				"next_provider", next.Provider(),
				"next_model", next.Model(),
				"operation", req.Operation,
				"action", ClassifyError(err),
				"error", err)
		}
	}

	slog.ErrorContext(ctx, "all completers failed",
		"chain_size", len(f.chain),
		"operation", req.Operation,
		"error", lastErr)
	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}

// completeWithRetry attempts one completer with retry logic.
func (f *FallbackCompleter) completeWithRetry(ctx context.Context, c Completer, req Request) (*Completion, error) {
	var lastErr error

	for attempt := range f.retryConfig.MaxAttempts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := c.Complete(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ClassifyError(err) != ActionRetry {
			return nil, err
		}

		// Last attempt, don't sleep
		if attempt == f.retryConfig.MaxAttempts-1 {
			break
		}

		backoff := CalculateBackoff(attempt+1, f.retryConfig.InitialDelay, f.retryConfig.MaxDelay)
		if !HasSufficientBudget(ctx, backoff) {
			return nil, fmt.Errorf("timeout during retry: %w", lastErr)
		}

		slog.DebugContext(ctx, "retrying completion",
			"provider", c.Provider(),
			"model", c.Model(),
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err)

		if err := Sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// Provider returns the primary provider type.
func (f *FallbackCompleter) Provider() Provider {
	if f == nil || len(f.chain) == 0 {
		return ""
	}
	return f.chain[0].Provider()
}

// Model returns the primary model name.
func (f *FallbackCompleter) Model() string {
	if f == nil || len(f.chain) == 0 {
		return ""
	}
	return f.chain[0].Model()
}

// Close closes every completer in the chain.
func (f *FallbackCompleter) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, c := range f.chain {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// classifyErrorType maps error to a metric status label.
func classifyErrorType(err error) string {
	if err == nil {
		return "success"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, domerrors.ErrEmptyResponse) {
		return "empty"
	}

	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		switch {
		case llmErr.StatusCode == http.StatusTooManyRequests:
			return "rate_limit"
		case llmErr.StatusCode >= 500:
			return "server_error"
		case llmErr.StatusCode == http.StatusUnauthorized || llmErr.StatusCode == http.StatusForbidden:
			return "auth_error"
		case llmErr.StatusCode >= 400:
			return "client_error"
		}
	}

	switch ClassifyError(err) {
	case ActionFallback:
		return "quota"
	case ActionFail:
		return "permanent"
	default:
		return "error"
	}
}
