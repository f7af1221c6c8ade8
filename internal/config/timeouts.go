// Package config provides centralized timeout constants for the application.
//
// The platform acknowledges a webhook delivery only when the HTTP response
// arrives, so the handler answers 200 immediately and processes events in the
// background. Reply tokens stay valid for about a minute, which bounds how
// long an event may take end to end.
package config

import "time"

// Webhook timeouts
const (
	// WebhookProcessing bounds one event: provider calls, retries, fallback
	// and the reply. Matches the 60s loading animation.
	WebhookProcessing = 60 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout. Payloads are small JSON.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	WebhookHTTPWrite = 15 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)

// Provider timeouts
const (
	// ProviderCall bounds one completion operation including retries and
	// fallback across the chain.
	ProviderCall = 8 * time.Second

	// ContentRequest is the per-request timeout for the weather and creature APIs.
	ContentRequest = 5 * time.Second

	// ContentRetries is how many times a weather or creature GET is retried
	// on a transient status.
	ContentRetries = 2

	// ContentRetryDelay is the first backoff delay; it doubles per retry.
	ContentRetryDelay = 300 * time.Millisecond
)

// Database timeouts
const (
	// DatabasePing bounds the readiness probe's database check.
	DatabasePing = 2 * time.Second
)

// Background job intervals
const (
	// DedupTTL is how long a webhook event ID is remembered. Redeliveries
	// arrive within minutes; a day leaves a wide margin.
	DedupTTL = 24 * time.Hour

	// DedupCleanupInterval is how often expired event IDs are deleted.
	DedupCleanupInterval = time.Hour

	// RateLimiterCleanupInterval is how often idle rate limiter keys are dropped.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Graceful shutdown
const (
	// GracefulShutdown is the default timeout for graceful server shutdown.
	GracefulShutdown = 30 * time.Second
)
