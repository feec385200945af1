package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketStartsFull(t *testing.T) {
	bucket := NewTokenBucket(5, 0)

	for i := 0; i < 5; i++ {
		assert.True(t, bucket.Allow(), "token %d", i)
	}
	assert.False(t, bucket.Allow(), "bucket exhausted")
}

func TestTokenBucketRefills(t *testing.T) {
	bucket := NewTokenBucket(2, 100)

	assert.True(t, bucket.Allow())
	assert.True(t, bucket.Allow())
	assert.False(t, bucket.Allow())

	time.Sleep(50 * time.Millisecond)
	assert.True(t, bucket.Allow(), "refilled after waiting")
}

func TestTokenBucketCapsAtCapacity(t *testing.T) {
	bucket := NewTokenBucket(3, 1000)

	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, bucket.Available(), 3.0)
}

func TestIPRateLimiterIsolatesClients(t *testing.T) {
	limiter := NewIPRateLimiter(1, 0)
	defer limiter.Stop()

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"), "first client exhausted")
	assert.True(t, limiter.Allow("10.0.0.2"), "second client unaffected")
	assert.Equal(t, 2, limiter.Size())
}
