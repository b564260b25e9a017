// Package workers contains background workers
package workers

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/gabeln-jetzt/gabeln/internal/events"
)

// Refresher periodically re-collects fork events, feeding new ones into
// the session router via the event manager.
type Refresher struct {
	manager  *events.Manager
	interval time.Duration
	logger   zerolog.Logger
}

// NewRefresher creates a new refresher
func NewRefresher(manager *events.Manager, interval time.Duration, logger zerolog.Logger) *Refresher {
	return &Refresher{
		manager:  manager,
		interval: interval,
		logger:   logger,
	}
}

// Run refreshes on every tick until the context is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Info().Dur("interval", r.interval).Msg("Event refresher started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Event refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// refresh runs one collection round, retrying transient failures with
// exponential backoff. A round that still fails is skipped; the next tick
// tries again.
func (r *Refresher) refresh(ctx context.Context) {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

	err := backoff.Retry(func() error {
		return r.manager.Refresh(ctx)
	}, policy)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to refresh fork events")
	}
}
