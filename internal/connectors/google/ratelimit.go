package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/openclerk/rolodex/internal/core/domain"
)

// RateLimitConfig holds rate limiting configuration for one account's
// People API traffic.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimit is conservative against the People API's per-user
// quota (90 read requests per minute per user).
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 1.0, BurstSize: 5}

// LimiterPool rate limits provider traffic per account. Accounts never
// share a bucket, so one busy account cannot starve another.
type LimiterPool struct {
	cfg RateLimitConfig

	mu       sync.Mutex
	limiters map[domain.AccountID]*rate.Limiter
	retryAt  map[domain.AccountID]time.Time
}

// NewLimiterPool creates a pool with the given per-account config.
// A zero config falls back to DefaultRateLimit.
func NewLimiterPool(cfg RateLimitConfig) *LimiterPool {
	if cfg.RequestsPerSecond <= 0 {
		cfg = DefaultRateLimit
	}
	return &LimiterPool{
		cfg:      cfg,
		limiters: make(map[domain.AccountID]*rate.Limiter),
		retryAt:  make(map[domain.AccountID]time.Time),
	}
}

// Wait blocks until a request for the account can proceed without
// exceeding its rate limit. It also respects any backoff period set by
// RecordRateLimitError.
func (p *LimiterPool) Wait(ctx context.Context, account domain.AccountID) error {
	p.mu.Lock()
	limiter, ok := p.limiters[account]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(p.cfg.RequestsPerSecond), p.cfg.BurstSize)
		p.limiters[account] = limiter
	}
	retryAt := p.retryAt[account]
	p.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return limiter.Wait(ctx)
}

// RecordRateLimitError sets a backoff period for the account.
// Call this after a 429 response from the provider.
func (p *LimiterPool) RecordRateLimitError(account domain.AccountID, retryAfterSeconds int) {
	if retryAfterSeconds <= 0 {
		retryAfterSeconds = 60
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.retryAt[account] = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}

// Allow reports whether a request for the account could proceed
// immediately without blocking.
func (p *LimiterPool) Allow(account domain.AccountID) bool {
	p.mu.Lock()
	limiter, ok := p.limiters[account]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(p.cfg.RequestsPerSecond), p.cfg.BurstSize)
		p.limiters[account] = limiter
	}
	retryAt := p.retryAt[account]
	p.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return limiter.Allow()
}
