// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/gabeln-jetzt/gabeln/config"
	"github.com/gabeln-jetzt/gabeln/internal/events"
	"github.com/gabeln-jetzt/gabeln/internal/infrastructure"
	"github.com/gabeln-jetzt/gabeln/internal/server"
	"github.com/gabeln-jetzt/gabeln/internal/session"
	"github.com/gabeln-jetzt/gabeln/internal/workers"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, telegram, giphy, github)
		infrastructure.Module,

		// Fork event history and its update stream
		events.Module,

		// Chat sessions and command routing
		session.Module,

		// Periodic event re-collection
		workers.Module,

		// HTTP feed surface
		server.Module,
	)
}
