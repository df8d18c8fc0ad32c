package tradestore

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Backoff returns the sleep before retry number attempt (0-based).
func Backoff(attempt int) time.Duration {
	switch attempt {
	case 0:
		return 100 * time.Millisecond
	case 1:
		return 250 * time.Millisecond
	default:
		return 500 * time.Millisecond
	}
}

// LoadWithRetry calls Load up to attempts times, sleeping Backoff between failures.
// Remote sources (postgres) are often not reachable in the first seconds of a deploy.
func LoadWithRetry(ctx context.Context, src Source, attempts int, logger *zap.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		snap, err := Load(ctx, src, logger)
		if err == nil {
			return snap, nil
		}
		lastErr = err
		if attempt == attempts-1 {
			break
		}

		logger.Warn("tradestore.load_retry",
			zap.String("source", src.Name()),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(Backoff(attempt)):
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
