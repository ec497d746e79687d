package storage

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Connect retries op with exponential backoff until it succeeds, ctx is done
// or maxElapsed passes. Used for pinging remote backends on startup.
func Connect[T any](ctx context.Context, name string, maxElapsed time.Duration, logger *zap.Logger, op func() (T, error)) (T, error) {
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(maxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn("Storage backend not ready, retrying",
				zap.String("backend", name),
				zap.Duration("retry_in", next),
				zap.Error(err))
		}),
	)
}
