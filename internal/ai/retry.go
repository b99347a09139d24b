package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// RetryConfig holds retry configuration for API calls
type RetryConfig struct {
	MaxRetries        int           // Maximum number of retries (default: 3)
	InitialBackoff    time.Duration // Initial backoff duration (default: 1s)
	MaxBackoff        time.Duration // Maximum backoff duration (default: 30s)
	BackoffMultiplier float64       // Backoff multiplier (default: 2.0)
	Timeout           time.Duration // Per-request timeout (default: 60s)
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		Timeout:           60 * time.Second,
	}
}

// retryWithBackoff executes an operation with retry and exponential backoff.
// Only transient failures are retried; a non-retriable error (auth, bad
// request) fails immediately.
func (r *Reviewer) retryWithBackoff(ctx context.Context, operation string, fn func(context.Context) error) error {
	var lastErr error
	backoff := r.retry.InitialBackoff

	for attempt := 0; attempt <= r.retry.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, r.retry.Timeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			if attempt > 0 {
				log.Printf("[AI] %s succeeded after %d retries", operation, attempt)
			}
			return nil
		}
		lastErr = err

		if !isRetriableError(err) {
			return err
		}
		if attempt == r.retry.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s: context canceled: %w", operation, ctx.Err())
		}

		log.Printf("[AI] %s failed (attempt %d/%d), retrying in %v: %v",
			operation, attempt+1, r.retry.MaxRetries+1, backoff, err)

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * r.retry.BackoffMultiplier)
			if backoff > r.retry.MaxBackoff {
				backoff = r.retry.MaxBackoff
			}
		case <-ctx.Done():
			return fmt.Errorf("%s: context canceled during backoff: %w", operation, ctx.Err())
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, r.retry.MaxRetries+1, lastErr)
}

// isRetriableError determines if an error is transient. The Anthropic SDK
// does not expose typed status errors for every failure mode, so this falls
// back to matching the error text.
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := err.Error()

	// Rate limits (429) are retriable
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return true
	}

	// Server errors (5xx) are retriable
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "gateway timeout") {
		return true
	}

	// Network/connection errors are retriable
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "network") {
		return true
	}

	// Everything else (auth failures, malformed requests) won't improve
	// on retry.
	return false
}
