package common

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// CheckCancellationWithLog returns ctx.Err() and logs when the context is already done.
func CheckCancellationWithLog(ctx context.Context, logger zerolog.Logger, operation string) error {
	select {
	case <-ctx.Done():
		logger.Info().Str("operation", operation).Msg("Context cancelled")
		return ctx.Err()
	default:
		return nil
	}
}

// WaitWithCancellation waits for a duration or until context is cancelled
func WaitWithCancellation(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsContextError checks if an error is context-related (cancelled or deadline exceeded)
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
