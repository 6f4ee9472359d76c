package llm

import (
	"context"
	"fmt"
	"log"
	"time"
)

// RetryingClient retries failed generation calls with linear backoff:
// attempt n waits delay*n before attempt n+1. Context cancellation stops
// the loop immediately.
type RetryingClient struct {
	inner       Client
	maxAttempts int
	delay       time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewRetryingClient wraps inner. maxAttempts below 1 is treated as 1.
func NewRetryingClient(inner Client, maxAttempts int, delay time.Duration) *RetryingClient {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryingClient{inner: inner, maxAttempts: maxAttempts, delay: delay, sleep: sleepContext}
}

// GenerateContent calls the wrapped client until it succeeds or attempts run out.
func (r *RetryingClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return r.do(ctx, "GenerateContent", func() (string, error) {
		return r.inner.GenerateContent(ctx, prompt, tier)
	})
}

// GenerateJSON calls the wrapped client until it succeeds or attempts run out.
func (r *RetryingClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return r.do(ctx, "GenerateJSON", func() (string, error) {
		return r.inner.GenerateJSON(ctx, prompt, tier)
	})
}

// GetModel delegates to the wrapped client.
func (r *RetryingClient) GetModel(tier ModelTier) string {
	return r.inner.GetModel(tier)
}

// Close delegates to the wrapped client.
func (r *RetryingClient) Close() error {
	return r.inner.Close()
}

func (r *RetryingClient) do(ctx context.Context, op string, call func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if attempt == r.maxAttempts {
			break
		}
		wait := r.delay * time.Duration(attempt)
		log.Printf("[llm] %s attempt %d/%d failed: %v (retrying in %s)", op, attempt, r.maxAttempts, err, wait)
		if err := r.sleep(ctx, wait); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%s failed after %d attempts: %w", op, r.maxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
