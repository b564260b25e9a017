// Package server exposes the read-only HTTP feed surface.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/gabeln-jetzt/gabeln/config"
	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// Module provides the feed server for fx dependency injection
var Module = fx.Module("server",
	fx.Provide(provideServer),
	fx.Invoke(registerLifecycle),
)

// provideServer creates the feed server over the event store
func provideServer(store domain.EventStore, logger zerolog.Logger) *Server {
	return New(store, logger)
}

// registerLifecycle starts and stops the HTTP listener
func registerLifecycle(lc fx.Lifecycle, srv *Server, cfg *config.ServiceConfig, logger zerolog.Logger) {
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info().Str("addr", httpServer.Addr).Msg("Starting feed server")
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error().Err(err).Msg("Feed server terminated")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})
}
