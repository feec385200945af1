package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
	"github.com/azizrestaurant/restaurant-platform/pkg/ratelimit"
)

// RateLimiter throttles requests with a global token bucket plus a per-IP
// bucket, mirroring the global limiter the upstream HTTP layer applied.
type RateLimiter struct {
	global            *ratelimit.TokenBucket
	perIP             *ratelimit.IPRateLimiter
	logger            logger.Logger
	trustForwardedFor bool
}

// RateLimiterConfig configures the middleware
type RateLimiterConfig struct {
	GlobalBurst       float64
	GlobalRate        float64
	IPBurst           float64
	IPRate            float64
	TrustForwardedFor bool
}

// NewRateLimiter creates the middleware
func NewRateLimiter(cfg *RateLimiterConfig, logger logger.Logger) *RateLimiter {
	return &RateLimiter{
		global:            ratelimit.NewTokenBucket(cfg.GlobalBurst, cfg.GlobalRate),
		perIP:             ratelimit.NewIPRateLimiter(cfg.IPBurst, cfg.IPRate),
		logger:            logger,
		trustForwardedFor: cfg.TrustForwardedFor,
	}
}

// Middleware returns the http middleware function
func (m *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.global.Allow() {
			m.logger.Warn("Global rate limit exceeded", "method", r.Method, "path", r.URL.Path)
			reject(w, "10")
			return
		}

		ip := m.clientIP(r)
		if !m.perIP.Allow(ip) {
			m.logger.Warn("IP rate limit exceeded", "method", r.Method, "path", r.URL.Path, "ip", ip)
			reject(w, "60")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Stop terminates the limiter's background work
func (m *RateLimiter) Stop() {
	m.perIP.Stop()
}

// Metrics reports limiter state for the ops endpoint
func (m *RateLimiter) Metrics() map[string]interface{} {
	return map[string]interface{}{
		"global_tokens_available": m.global.Available(),
		"tracked_ips":             m.perIP.Size(),
	}
}

func reject(w http.ResponseWriter, retryAfter string) {
	w.Header().Set("Retry-After", retryAfter)
	http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
}

func (m *RateLimiter) clientIP(r *http.Request) string {
	if m.trustForwardedFor {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			return strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
