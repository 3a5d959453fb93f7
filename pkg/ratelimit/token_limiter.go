package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenLimiter caps token spend per minute for metered API calls. It wraps
// a rate.Limiter refilling at limit/60 tokens per second with a burst of the
// full minute budget.
type TokenLimiter struct {
	limiter *rate.Limiter
	limit   int
}

// NewTokenLimiter creates a limiter allowing limit tokens per minute.
func NewTokenLimiter(limit int) *TokenLimiter {
	return &TokenLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(limit)/60.0), limit),
		limit:   limit,
	}
}

// Wait blocks until n tokens are available or the context is cancelled.
// Requests larger than the whole budget are clamped so they can never
// deadlock the caller.
func (t *TokenLimiter) Wait(ctx context.Context, n int) error {
	if n > t.limit {
		n = t.limit
	}
	if n <= 0 {
		return nil
	}
	return t.limiter.WaitN(ctx, n)
}

// GetRemaining reports the tokens currently available.
func (t *TokenLimiter) GetRemaining() int {
	return int(t.limiter.Tokens())
}
