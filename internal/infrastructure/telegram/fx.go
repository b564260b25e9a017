// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/gabeln-jetzt/gabeln/config"
	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// Module provides the Telegram client for fx dependency injection
var Module = fx.Module("telegram",
	fx.Provide(provideClient),
	fx.Provide(func(c *Client) domain.PlatformClient { return c }),
	fx.Invoke(registerLifecycle),
)

// provideClient creates the Telegram client from config
func provideClient(cfg *config.TelegramConfig, logger zerolog.Logger) (*Client, error) {
	return NewClient(cfg.BotToken, logger)
}

// registerLifecycle registers the update long poll lifecycle hooks
func registerLifecycle(lc fx.Lifecycle, client *Client) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Long-lived context for the long poll; Start is blocking.
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			go client.Start(ctx)
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
