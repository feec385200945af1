package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testBreaker() *CircuitBreaker {
	return New(Config{
		FailureThreshold: 3,
		ResetTimeout:     30 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	})
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := testBreaker()
	assert.Equal(t, StateClosed, cb.GetState())

	cb.Failure()
	cb.Failure()
	assert.Equal(t, StateClosed, cb.GetState(), "below threshold")

	cb.Failure()
	assert.Equal(t, StateOpen, cb.GetState())
	assert.False(t, cb.Allow())
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := testBreaker()

	cb.Failure()
	cb.Failure()
	cb.Success()
	cb.Failure()
	cb.Failure()

	assert.Equal(t, StateClosed, cb.GetState())
}

func TestBreakerHalfOpenProbes(t *testing.T) {
	cb := testBreaker()
	for i := 0; i < 3; i++ {
		cb.Failure()
	}

	time.Sleep(40 * time.Millisecond)

	assert.True(t, cb.Allow(), "first probe after reset timeout")
	assert.Equal(t, StateHalfOpen, cb.GetState())
	assert.True(t, cb.Allow(), "second probe within half-open budget")
	assert.False(t, cb.Allow(), "half-open call budget spent")
}

func TestBreakerClosesOnHalfOpenSuccess(t *testing.T) {
	cb := testBreaker()
	for i := 0; i < 3; i++ {
		cb.Failure()
	}

	time.Sleep(40 * time.Millisecond)
	assert.True(t, cb.Allow())
	cb.Success()

	assert.Equal(t, StateClosed, cb.GetState())
	assert.True(t, cb.Allow())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := testBreaker()
	for i := 0; i < 3; i++ {
		cb.Failure()
	}

	time.Sleep(40 * time.Millisecond)
	assert.True(t, cb.Allow())
	cb.Failure()

	assert.Equal(t, StateOpen, cb.GetState())
	assert.False(t, cb.Allow())
}

func TestBreakerMetrics(t *testing.T) {
	cb := testBreaker()
	cb.Failure()

	metrics := cb.Metrics()
	assert.Equal(t, "closed", metrics["state"])
	assert.Equal(t, 1, metrics["failure_count"])
}
