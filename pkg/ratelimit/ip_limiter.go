package ratelimit

import (
	"sync"
	"time"
)

// IPRateLimiter keeps one token bucket per client IP. Entries idle longer
// than idleTTL are dropped by a background sweep.
type IPRateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*ipBucket
	capacity   float64
	refillRate float64
	idleTTL    time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

type ipBucket struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// NewIPRateLimiter creates a per-IP limiter and starts its sweep loop
func NewIPRateLimiter(capacity, refillRate float64) *IPRateLimiter {
	l := &IPRateLimiter{
		buckets:    make(map[string]*ipBucket),
		capacity:   capacity,
		refillRate: refillRate,
		idleTTL:    15 * time.Minute,
		stop:       make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Allow consumes a token from the bucket for the given IP
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	b, ok := l.buckets[ip]
	if !ok {
		b = &ipBucket{bucket: NewTokenBucket(l.capacity, l.refillRate)}
		l.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	l.mu.Unlock()

	return b.bucket.Allow()
}

// Size returns the number of tracked IPs
func (l *IPRateLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop terminates the sweep loop
func (l *IPRateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *IPRateLimiter) sweepLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-l.idleTTL)
			l.mu.Lock()
			for ip, b := range l.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(l.buckets, ip)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}
