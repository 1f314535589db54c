package usecases

import (
	"TUI_youtube_pip/internal/core/domain"
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryConfig controls the backoff used when loading playlists.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

var DefaultRetryConfig = RetryConfig{
	MaxRetries:  3,
	InitialWait: time.Second,
	MaxWait:     8 * time.Second,
	Multiplier:  2.0,
}

func (rc RetryConfig) backOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	if rc.InitialWait > 0 {
		bo.InitialInterval = rc.InitialWait
	}
	if rc.MaxWait > 0 {
		bo.MaxInterval = rc.MaxWait
	}
	if rc.Multiplier > 0 {
		bo.Multiplier = rc.Multiplier
	}

	return bo
}

func retryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	operation := func() (T, error) {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, backoff.Permanent(err)
		}

		result, err := fn()
		if err != nil && !isRetryable(err) {
			return result, backoff.Permanent(err)
		}

		return result, err
	}

	tries := uint(1)
	if rc.MaxRetries > 0 {
		tries += uint(rc.MaxRetries)
	}

	return backoff.Retry(ctx, operation, backoff.WithBackOff(rc.backOff()), backoff.WithMaxTries(tries))
}

// Only transient failures are retried; auth, quota and not-found errors are final.
func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrNetwork) || errors.Is(err, domain.ErrAPI)
}
