package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thejatinbaghel/JobReady-AI/internal/ai"
	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// Limiter enforces a minimum delay between calls that share a key.
type Limiter struct {
	mu       sync.Mutex
	next     map[string]time.Time // key: provider name; earliest start of the next call
	minDelay time.Duration
}

// NewLimiter creates a limiter that enforces minDelay between consecutive
// calls with the same key.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		next:     make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until the key's next slot opens, then reserves the one after it.
// Returns an error if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if l.minDelay <= 0 {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	start := l.next[key]
	if start.Before(now) {
		start = now
	}
	// Reserve before releasing the lock so concurrent callers queue up
	// behind each other instead of all waking at the same instant.
	l.next[key] = start.Add(l.minDelay)
	l.mu.Unlock()

	wait := start.Sub(now)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w: %w", key, model.ErrNetwork, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// Ensure RateLimitedProvider implements ai.LLMProvider.
var _ ai.LLMProvider = (*RateLimitedProvider)(nil)

// RateLimitedProvider is a decorator that waits on a shared Limiter before
// delegating to the wrapped provider.
type RateLimitedProvider struct {
	inner   ai.LLMProvider
	limiter *Limiter
	key     string
}

// NewRateLimitedProvider wraps provider with rate limiting under key.
// All providers that hit the same upstream should share one limiter.
func NewRateLimitedProvider(inner ai.LLMProvider, limiter *Limiter, key string) *RateLimitedProvider {
	return &RateLimitedProvider{
		inner:   inner,
		limiter: limiter,
		key:     key,
	}
}

// Complete waits for the limiter, then delegates to the wrapped provider.
func (p *RateLimitedProvider) Complete(ctx context.Context, prompt model.Prompt) (string, error) {
	if err := p.limiter.Wait(ctx, p.key); err != nil {
		return "", err
	}
	return p.inner.Complete(ctx, prompt)
}
