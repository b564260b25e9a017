// Package giphy contains the Giphy API client
package giphy

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/gabeln-jetzt/gabeln/config"
	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// Module provides the Giphy client for fx dependency injection
var Module = fx.Module("giphy",
	fx.Provide(provideClient),
	fx.Provide(func(c *Client) domain.GifProvider { return c }),
)

// provideClient creates the Giphy client from config
func provideClient(cfg *config.GiphyConfig, logger zerolog.Logger) (*Client, error) {
	return NewClient(cfg.APIKey, cfg.BaseURL, cfg.GifLimit, logger)
}
