package worker

import (
	"context"
	"errors"
	"time"

	"github.com/polkiloo/orderflow/internal/adapter/whatsapp"
)

// RetryConfig bounds delivery attempts.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// NewRetryConfig returns exponential backoff settings starting at base.
func NewRetryConfig(attempts int, base time.Duration) RetryConfig {
	if attempts <= 0 {
		attempts = 1
	}
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	return RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   base,
		MaxDelay:    30 * base,
		Multiplier:  2.0,
	}
}

// errPermanent marks failures that another attempt cannot fix.
func errPermanent(err error) bool {
	return errors.Is(err, whatsapp.ErrRecipientRequired)
}

// retryWithBackoff runs fn until it succeeds, fails permanently or attempts run out.
// A rate limit answer replaces the computed backoff with the server's Retry-After.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) (int, error) {
	var lastErr error
	backoff := cfg.BaseDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return attempt, ctx.Err()
		}
		if errPermanent(err) || attempt == cfg.MaxAttempts {
			return attempt, lastErr
		}

		wait := backoff
		var limited whatsapp.TooManyRequestsError
		if errors.As(err, &limited) && limited.RetryAfter > 0 {
			wait = limited.RetryAfter
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if backoff > cfg.MaxDelay {
			backoff = cfg.MaxDelay
		}
	}

	return cfg.MaxAttempts, lastErr
}
