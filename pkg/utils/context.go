package utils

import (
	"context"
	"time"

	"stock-signal-pipeline/pkg/logger"
)

// ShouldContinue reports whether the context is still live, logging once
// when it is not. Loop bodies call this between units of work.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Info("context cancelled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}

// SleepContext sleeps for d unless the context is cancelled first. It
// returns false when the sleep was interrupted.
func SleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
