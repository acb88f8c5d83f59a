package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/thejatinbaghel/JobReady-AI/internal/ai"
	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// Ensure RetryProvider implements ai.LLMProvider.
var _ ai.LLMProvider = (*RetryProvider)(nil)

// RetryProvider is a decorator that retries transient provider failures with
// exponential backoff and jitter. It is only installed when ai.max_retries is
// positive; by default requests are retried only when the user asks again.
type RetryProvider struct {
	inner      ai.LLMProvider
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryProvider wraps a provider with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryProvider(inner ai.LLMProvider, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryProvider {
	return &RetryProvider{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Complete attempts the call, retrying on transient errors.
func (p *RetryProvider) Complete(ctx context.Context, prompt model.Prompt) (string, error) {
	text, err := p.inner.Complete(ctx, prompt)
	if err == nil {
		return text, nil
	}

	if !isRetryable(err) {
		return "", err
	}

	lastErr := err
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		delay := p.backoffDelay(attempt, lastErr)

		p.logger.Warn("retrying after transient error",
			"attempt", attempt,
			"max_retries", p.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w: %w", model.ErrNetwork, ctx.Err())
		case <-time.After(delay):
		}

		text, err = p.inner.Complete(ctx, prompt)
		if err == nil {
			return text, nil
		}

		if !isRetryable(err) {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (p *RetryProvider) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether err is a transient transport failure. Shape and
// parse failures are deterministic for a given payload and never retried.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if !errors.Is(err, model.ErrNetwork) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		// 429 and 5xx are retryable; other 4xx are not.
		return httpErr.StatusCode == 429 || httpErr.StatusCode >= 500
	}

	// Non-HTTP network errors (DNS, connection reset).
	return true
}
