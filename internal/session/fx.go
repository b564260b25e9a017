// Package session contains the chat session state and the command router.
package session

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/gabeln-jetzt/gabeln/config"
	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// Module provides the session router for fx dependency injection
var Module = fx.Module("session",
	fx.Provide(NewRegistry),
	fx.Provide(provideRouter),
	fx.Invoke(runRouter),
)

// provideRouter creates the session router from its collaborators
func provideRouter(
	client domain.PlatformClient,
	gifs domain.GifProvider,
	registry *Registry,
	source domain.EventSource,
	cfg *config.BotConfig,
	logger zerolog.Logger,
) *Router {
	return NewRouter(client, gifs, registry, source, cfg.Trigger, logger)
}

// runRouter runs the router loop for the lifetime of the application. A
// loop exit other than a plain shutdown is fatal and stops the process.
func runRouter(lc fx.Lifecycle, shutdowner fx.Shutdowner, router *Router, logger zerolog.Logger) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			go func() {
				err := router.Run(ctx)
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Error().Err(err).Msg("Session router terminated")
					_ = shutdowner.Shutdown()
				}
			}()
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
