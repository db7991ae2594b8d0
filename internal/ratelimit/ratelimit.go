// Package ratelimit provides a keyed rate limiter using the token bucket algorithm.
// Each upstream API gets its own key with an independently configured budget, so
// pacing against one endpoint never starves another.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Rate describes the request budget for one key.
type Rate struct {
	RPS   float64
	Burst int
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent token bucket.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rates    map[string]Rate
	fallback Rate
}

// New creates a new keyed rate limiter. Keys without an explicit rate
// use the fallback budget.
func New(fallback Rate) *KeyedRateLimiter {
	if fallback.Burst < 1 {
		fallback.Burst = 1
	}
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rates:    make(map[string]Rate),
		fallback: fallback,
	}
}

// SetRate configures the budget for a key. It must be called before the
// first Wait/Allow for that key; later calls are ignored.
func (krl *KeyedRateLimiter) SetRate(key string, r Rate) {
	if r.Burst < 1 {
		r.Burst = 1
	}
	krl.mu.Lock()
	defer krl.mu.Unlock()
	if _, exists := krl.limiters[key]; exists {
		return
	}
	krl.rates[key] = r
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or the context
// is canceled. Use for outbound requests to respect upstream limits.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// getLimiter returns the limiter for a key, creating one if needed.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	// Fast path: read lock
	krl.mu.RLock()
	limiter, exists := krl.limiters[key]
	krl.mu.RUnlock()

	if exists {
		return limiter
	}

	// Slow path: write lock to create
	krl.mu.Lock()
	defer krl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = krl.limiters[key]; exists {
		return limiter
	}

	r, ok := krl.rates[key]
	if !ok {
		r = krl.fallback
	}
	limiter = rate.NewLimiter(rate.Limit(r.RPS), r.Burst)
	krl.limiters[key] = limiter
	return limiter
}
