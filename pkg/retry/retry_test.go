package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

func testConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts:     maxAttempts,
		BackoffStrategy: &ConstantBackoff{Interval: time.Millisecond},
		Logger:          logger.New("error"),
	}
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, testConfig(5))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	err := Do(context.Background(), func() error {
		calls++
		return boom
	}, testConfig(3))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, func() error {
		calls++
		return nil
	}, testConfig(3))

	require.Error(t, err)
	assert.Zero(t, calls)
}

func TestExponentialBackoffGrowth(t *testing.T) {
	backoff := &ExponentialBackoff{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
	}

	assert.Equal(t, 100*time.Millisecond, backoff.NextBackoff(1))
	assert.Equal(t, 200*time.Millisecond, backoff.NextBackoff(2))
	assert.Equal(t, 400*time.Millisecond, backoff.NextBackoff(3))
	assert.Equal(t, time.Second, backoff.NextBackoff(10), "capped at MaxInterval")
}

func TestExponentialBackoffJitterBounds(t *testing.T) {
	backoff := NewDefaultExponentialBackoff()

	for attempt := 1; attempt <= 5; attempt++ {
		d := backoff.NextBackoff(attempt)
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.LessOrEqual(t, d, 30*time.Second)
	}
}
