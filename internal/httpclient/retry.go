package httpclient

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so RetryWithBackoff returns it without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryWithBackoff retries fn with exponential backoff and ±25% jitter.
// maxRetries is the number of retries after the first attempt.
//
//	attempt 0: immediate
//	attempt 1: ~initialDelay
//	attempt 2: ~2*initialDelay
func RetryWithBackoff(ctx context.Context, maxRetries int, initialDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var permErr *permanentError
		if errors.As(err, &permErr) {
			return permErr.Unwrap()
		}

		if attempt == maxRetries {
			break
		}

		delay := initialDelay << attempt
		if half := int64(delay) / 2; half > 0 {
			delay = delay - delay/4 + time.Duration(rand.Int64N(half)) //nolint:gosec // jitter only
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
