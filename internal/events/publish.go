package events

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// forwardBaseDelay is the wait after the first failed send; it doubles per attempt
const forwardBaseDelay = 50 * time.Millisecond

// backoff returns the wait before attempt n (0-based). Attempt 0 never waits.
func backoff(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return forwardBaseDelay << (n - 1)
}

// Forward hands a change to the relay, trying up to attempts times.
// It gives up early when ctx ends or the client is closed.
// A nil client is a no-op, so stores without a daemon need no special case.
func Forward(ctx context.Context, client EventPublisher, event Event, attempts int, logger *slog.Logger) error {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	var err error
	for n := range attempts {
		if d := backoff(n); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		if err = client.SendEvent(event); err == nil {
			if n > 0 {
				logger.Debug("change relayed after retry", "attempt", n+1, "op", event.Op, "database", event.Database)
			}
			return nil
		}
		if errors.Is(err, ErrClientClosed) {
			return err
		}
		logger.Debug("relay send failed", "attempt", n+1, "error", err)
	}

	logger.Warn("change dropped by relay",
		"attempts", attempts,
		"op", event.Op,
		"database", event.Database,
		"cards", len(event.CardIDs),
		"error", err)
	return err
}
