// Package events maintains the collected fork event history
package events

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
	"github.com/gabeln-jetzt/gabeln/internal/infrastructure/github"
)

// Module provides the event manager for fx dependency injection
var Module = fx.Module("events",
	fx.Provide(provideManager),
	fx.Provide(func(m *Manager) domain.EventSource { return m }),
	fx.Provide(func(m *Manager) domain.EventStore { return m }),
)

// provideManager creates the event manager backed by the GitHub collector
func provideManager(collector *github.Collector, logger zerolog.Logger) *Manager {
	return NewManager(collector, logger)
}
