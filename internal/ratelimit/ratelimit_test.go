package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()
	l := New(10, 5)
	if l.maxTokens != 10 {
		t.Errorf("maxTokens = %v, want 10", l.maxTokens)
	}
	if l.refillRate != 5 {
		t.Errorf("refillRate = %v, want 5", l.refillRate)
	}
	if l.tokens != 10 {
		t.Errorf("initial tokens = %v, want 10", l.tokens)
	}
}

func TestAllow(t *testing.T) {
	t.Parallel()
	t.Run("allows when tokens available", func(t *testing.T) {
		t.Parallel()
		l := New(5, 1)
		for i := 0; i < 5; i++ {
			if !l.Allow() {
				t.Errorf("Allow() = false on attempt %d, want true", i+1)
			}
		}
	})

	t.Run("denies when no tokens", func(t *testing.T) {
		t.Parallel()
		l := New(2, 0) // No refill
		l.Allow()
		l.Allow()
		if l.Allow() {
			t.Error("Allow() = true when no tokens, want false")
		}
	})

	t.Run("refills over time", func(t *testing.T) {
		t.Parallel()
		l := New(1, 100) // Fast refill for testing
		l.Allow()        // Consume the token

		// Wait for refill
		time.Sleep(20 * time.Millisecond)

		if !l.Allow() {
			t.Error("Allow() = false after refill time, want true")
		}
	})
}

func TestWait(t *testing.T) {
	t.Parallel()
	t.Run("returns immediately when tokens available", func(t *testing.T) {
		t.Parallel()
		l := New(5, 1)
		ctx := context.Background()

		start := time.Now()
		err := l.Wait(ctx)
		elapsed := time.Since(start)

		if err != nil {
			t.Errorf("Wait() error = %v, want nil", err)
		}
		if elapsed > 10*time.Millisecond {
			t.Errorf("Wait() took %v, expected immediate return", elapsed)
		}
	})

	t.Run("waits for token", func(t *testing.T) {
		t.Parallel()
		l := New(1, 50) // 50 tokens/sec = 20ms per token
		l.Allow()       // Consume the token

		ctx := context.Background()
		start := time.Now()
		err := l.Wait(ctx)
		elapsed := time.Since(start)

		if err != nil {
			t.Errorf("Wait() error = %v, want nil", err)
		}
		if elapsed < 15*time.Millisecond {
			t.Errorf("Wait() took %v, expected ~20ms wait", elapsed)
		}
	})

	t.Run("zero refill waits for context", func(t *testing.T) {
		t.Parallel()
		l := New(1, 0)
		l.Allow()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		if err := l.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()
		l := New(0, 0.1) // Very slow refill

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := l.Wait(ctx)
		if err != context.DeadlineExceeded {
			t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
		}
	})
}

// tokens returns the refilled token count.
func tokens(l *Limiter) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	return l.tokens
}

func TestRefillTokens(t *testing.T) {
	t.Parallel()
	l := New(10, 1)
	l.Allow()
	l.Allow()

	available := tokens(l)
	// Allow some tolerance for timing
	if available < 7.9 || available > 8.1 {
		t.Errorf("tokens = %v, want ~8", available)
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()
	l := New(100, 0)

	var wg sync.WaitGroup
	allowed := make(chan struct{}, 200)

	// Spawn 50 goroutines each trying to get 2 tokens
	for range 50 {
		wg.Go(func() {
			if l.Allow() {
				allowed <- struct{}{}
			}
			if l.Allow() {
				allowed <- struct{}{}
			}
		})
	}

	wg.Wait()
	close(allowed)

	count := 0
	for range allowed {
		count++
	}

	// Should have allowed exactly 100 (initial tokens)
	if count != 100 {
		t.Errorf("concurrent Allow() allowed %d requests, want 100", count)
	}
}

func TestIsFull(t *testing.T) {
	t.Parallel()
	t.Run("full when at max capacity", func(t *testing.T) {
		t.Parallel()
		l := New(10, 1)
		if !l.IsFull() {
			t.Error("IsFull() = false for new limiter, want true")
		}
	})

	t.Run("not full after consuming tokens", func(t *testing.T) {
		t.Parallel()
		l := New(10, 0) // No refill
		l.Allow()
		if l.IsFull() {
			t.Error("IsFull() = true after Allow(), want false")
		}
	})

	t.Run("becomes full after refill", func(t *testing.T) {
		t.Parallel()
		l := New(1, 100) // Fast refill
		l.Allow()        // Consume

		// Wait for refill
		time.Sleep(20 * time.Millisecond)

		if !l.IsFull() {
			t.Error("IsFull() = false after refill, want true")
		}
	})
}

func TestCheckConsume(t *testing.T) {
	t.Parallel()
	l := New(1, 0)

	if !l.Check() {
		t.Fatal("Check() = false on a full bucket")
	}
	if !l.Check() {
		t.Error("Check() must not consume")
	}
	l.Consume()
	if l.Check() {
		t.Error("Check() = true after Consume() with no refill")
	}
	l.Consume() // no-op on an empty bucket
	if got := tokens(l); got != 0 {
		t.Errorf("tokens = %v, want 0", got)
	}
}
