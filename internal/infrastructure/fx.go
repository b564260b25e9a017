// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/gabeln-jetzt/gabeln/internal/infrastructure/github"
	"github.com/gabeln-jetzt/gabeln/internal/infrastructure/giphy"
	"github.com/gabeln-jetzt/gabeln/internal/infrastructure/logger"
	"github.com/gabeln-jetzt/gabeln/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	telegram.Module,
	giphy.Module,
	github.Module,
)
