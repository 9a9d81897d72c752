package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mknopf/vitrine/internal/session"
	"github.com/mknopf/vitrine/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// StartPoller refreshes the stores in the background until the context is
// cancelled. Refreshes go through the client cache, so the poll interval
// bounds how quickly mutations made elsewhere become visible while the
// cache TTL bounds actual network traffic.
func StartPoller(ctx context.Context, projects *state.Projects, bookmarks *state.Bookmarks, sess *session.Session, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	go func() {
		for {
			failures := refresh(ctx, projects, bookmarks, sess, logger)

			// Back off when the API keeps failing
			wait := calculateBackoff(failures, interval)

			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
	}()
}

// refresh runs one poll cycle and reports the project store's consecutive
// failure count for backoff.
func refresh(ctx context.Context, projects *state.Projects, bookmarks *state.Bookmarks, sess *session.Session, logger *slog.Logger) int {
	if err := projects.Refresh(ctx, false); err != nil {
		logger.Warn("project poll failed", "error", err)
	}

	// Bookmarks are a per-user resource; skip them while anonymous.
	if sess.Authenticated() {
		if err := bookmarks.Refresh(ctx, false); err != nil {
			logger.Warn("bookmark poll failed", "error", err)
		}
	}

	return projects.Snapshot().ConsecutiveFailures
}

// calculateBackoff doubles the poll interval per consecutive failure,
// capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
