// Package workers contains background workers
package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/gabeln-jetzt/gabeln/config"
	"github.com/gabeln-jetzt/gabeln/internal/events"
)

// Module provides background workers for fx dependency injection
var Module = fx.Module("workers",
	fx.Provide(provideRefresher),
	fx.Invoke(runRefresher),
)

// provideRefresher creates the refresher from config
func provideRefresher(manager *events.Manager, cfg *config.GitHubConfig, logger zerolog.Logger) *Refresher {
	return NewRefresher(manager, cfg.RefreshInterval, logger)
}

// runRefresher bootstraps the event history and runs the refresher for
// the lifetime of the application. A failed bootstrap aborts startup.
func runRefresher(lc fx.Lifecycle, refresher *Refresher, manager *events.Manager) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			if err := manager.Bootstrap(startCtx); err != nil {
				return err
			}

			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			go refresher.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}
