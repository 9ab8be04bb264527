package api

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter is a per-client token bucket keyed by remote IP
type RateLimiter struct {
	mu                sync.Mutex
	requestsPerMinute int
	buckets           map[string]*tokenBucket
	lastSweep         time.Time
	now               func() time.Time
}

type tokenBucket struct {
	tokens     int
	lastRefill time.Time
}

// NewRateLimiter allows requestsPerMinute requests per client
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		buckets:           make(map[string]*tokenBucket),
		now:               time.Now,
	}
}

// Allow consumes a token for key and reports whether the request may proceed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)
	bucket, exists := rl.buckets[key]
	if !exists {
		bucket = &tokenBucket{tokens: rl.requestsPerMinute, lastRefill: now}
		rl.buckets[key] = bucket
	}

	tokensToAdd := int(now.Sub(bucket.lastRefill).Minutes() * float64(rl.requestsPerMinute))
	if tokensToAdd > 0 {
		bucket.tokens = min(rl.requestsPerMinute, bucket.tokens+tokensToAdd)
		bucket.lastRefill = now
	}

	if bucket.tokens <= 0 {
		return false
	}
	bucket.tokens--
	return true
}

// sweep evicts buckets untouched for a minute. Such a bucket would be full on
// its next use, so dropping it loses nothing. Runs at most once a minute.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < time.Minute {
		return
	}
	rl.lastSweep = now
	for key, bucket := range rl.buckets {
		if now.Sub(bucket.lastRefill) >= time.Minute {
			delete(rl.buckets, key)
		}
	}
}

// Middleware rejects clients that exceeded their budget with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(60/max(rl.requestsPerMinute, 1)+1))
			writeError(w, r, http.StatusTooManyRequests,
				fmt.Sprintf("Rate limit exceeded. Maximum %d requests per minute.", rl.requestsPerMinute))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
