// Package ratelimit provides a keyed token-bucket rate limiter. Each board
// domain gets its own independent limiter, so subsets hitting different
// domains never throttle each other.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter manages one token-bucket limiter per key.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a keyed rate limiter allowing rps requests per second per key
// with the given burst.
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Wait blocks until a request for the given key is allowed or the context is
// canceled.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// Allow reports whether a request for the given key may proceed right now.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.RLock()
	limiter, exists := krl.limiters[key]
	krl.mu.RUnlock()
	if exists {
		return limiter
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()
	if limiter, exists = krl.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(krl.limit, krl.burst)
	krl.limiters[key] = limiter
	return limiter
}
