// Package ratelimit throttles calls to upstream data providers.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// UpstreamLimiter keeps one token bucket per upstream provider so a burst of
// flight searches cannot exhaust third-party quotas.
type UpstreamLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

// Config is the default per-provider limit.
type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultConfig returns conservative defaults for metered APIs.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		BurstSize:         10,
	}
}

// New creates a limiter with the given defaults.
func New(config Config) *UpstreamLimiter {
	return &UpstreamLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

// NewWithDefaults creates a limiter with DefaultConfig.
func NewWithDefaults() *UpstreamLimiter {
	return New(DefaultConfig())
}

// Limiter returns the bucket for a provider, creating it on first use.
func (u *UpstreamLimiter) Limiter(provider string) *rate.Limiter {
	u.mu.RLock()
	limiter, exists := u.limiters[provider]
	u.mu.RUnlock()

	if exists {
		return limiter
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if limiter, exists = u.limiters[provider]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(u.defaults.RequestsPerSecond), u.defaults.BurstSize)
	u.limiters[provider] = limiter
	return limiter
}

// SetLimit overrides the limit for one provider.
func (u *UpstreamLimiter) SetLimit(provider string, rps float64, burst int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.limiters[provider] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the provider's bucket allows one request.
func (u *UpstreamLimiter) Wait(ctx context.Context, provider string) error {
	return u.Limiter(provider).Wait(ctx)
}
