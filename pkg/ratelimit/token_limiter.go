package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a token-per-minute budget across callers. It is used
// to stay under generative AI provider token quotas, which are expressed per
// minute rather than per request.
type TokenLimiter struct {
	mu        sync.Mutex
	maxTokens int
	remaining int
	resetAt   time.Time
}

// NewTokenLimiter creates a limiter with the given per-minute token budget.
func NewTokenLimiter(maxTokensPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxTokens: maxTokensPerMinute,
		remaining: maxTokensPerMinute,
		resetAt:   time.Now().Add(time.Minute),
	}
}

// Wait blocks until the given number of tokens can be spent, or the context
// is canceled. A request larger than the whole budget is allowed through once
// the window resets, otherwise it could never proceed.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		l.mu.Lock()
		now := time.Now()
		if now.After(l.resetAt) {
			l.remaining = l.maxTokens
			l.resetAt = now.Add(time.Minute)
		}
		if tokens >= l.maxTokens {
			l.remaining = 0
			l.mu.Unlock()
			return nil
		}
		if tokens <= l.remaining {
			l.remaining -= tokens
			l.mu.Unlock()
			return nil
		}
		wait := time.Until(l.resetAt)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Now().After(l.resetAt) {
		return l.maxTokens
	}
	return l.remaining
}
