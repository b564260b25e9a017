// Package github contains the GitHub event collector
package github

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/gabeln-jetzt/gabeln/config"
)

// Module provides the GitHub collector for fx dependency injection
var Module = fx.Module("github",
	fx.Provide(provideCollector),
)

// provideCollector creates the collector from config
func provideCollector(cfg *config.GitHubConfig, logger zerolog.Logger) *Collector {
	return NewCollector(cfg.Users, logger)
}
