package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/markbook/markbook-backend/internal/response"
)

// RateLimiter is a per-IP fixed-window limiter: each client gets `limit`
// requests per `interval`, with the budget resetting when the window rolls
// over.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	limit    int
	interval time.Duration
}

type bucket struct {
	remaining   int
	windowStart time.Time
}

// NewRateLimiter creates a limiter allowing `limit` requests per `interval`
// per client IP. A background goroutine evicts idle buckets.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		limit:    limit,
		interval: interval,
	}

	go func() {
		for range time.Tick(time.Minute) {
			rl.evictIdle()
		}
	}()

	return rl
}

// Middleware rejects requests over budget with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok || now.Sub(b.windowStart) >= rl.interval {
		b = &bucket{remaining: rl.limit, windowStart: now}
		rl.buckets[ip] = b
	}

	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

func (rl *RateLimiter) evictIdle() {
	cutoff := time.Now().Add(-3 * rl.interval)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.buckets {
		if b.windowStart.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}
