package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

// RetryableFunc is an operation that may be retried
type RetryableFunc func() error

// Config controls the retry loop
type Config struct {
	MaxAttempts     int
	BackoffStrategy BackoffStrategy
	Logger          logger.Logger
}

// Do runs fn up to MaxAttempts times, backing off between attempts. The
// context cancels the loop, including mid-backoff.
func Do(ctx context.Context, fn RetryableFunc, cfg *Config) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry cancelled by context: %w", err)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		backoff := cfg.BackoffStrategy.NextBackoff(attempt)
		cfg.Logger.Info("Retrying after error",
			"error", lastErr, "attempt", attempt, "maxAttempts", cfg.MaxAttempts, "backoff", backoff)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled by context during backoff: %w", ctx.Err())
		}
	}

	return fmt.Errorf("all %d retry attempts failed, last error: %w", cfg.MaxAttempts, lastErr)
}
