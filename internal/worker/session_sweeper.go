package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper drops idle signup sessions.
type Sweeper interface {
	Sweep(ttl time.Duration) int
}

// RunSessionSweeper calls Sweep every interval until ctx is done. It returns
// immediately when interval or ttl is not positive.
func RunSessionSweeper(ctx context.Context, sessions Sweeper, interval, ttl time.Duration, logger *zap.Logger) {
	if sessions == nil || interval <= 0 || ttl <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(ttl); n > 0 {
				logger.Debug("swept idle signup sessions", zap.Int("removed", n))
			}
		}
	}
}
