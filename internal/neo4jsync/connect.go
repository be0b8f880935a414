// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package neo4jsync

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// RetryBaseDelay is the first backoff between connection attempts. It
// doubles on each attempt. Tests override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultConnectRetries = 3

// withRetry calls fn until it succeeds or maxRetries retries have failed,
// sleeping RetryBaseDelay, 2x, 4x, ... between attempts. The last error is
// returned. A cancelled ctx stops the wait and returns ctx.Err().
func withRetry(ctx context.Context, maxRetries int, logger *zap.Logger, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = defaultConnectRetries
	}
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil || attempt >= maxRetries {
			return err
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		logger.Warn("neo4j not reachable, retrying",
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
