package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/SAVX-BOY/dead-x-bot/config"
	healthhttp "github.com/SAVX-BOY/dead-x-bot/internal/delivery/http"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/pipeline"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/ratelimit"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/database"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/logger"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/telegram"
)

// CreateApp creates the fx application options
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(
			config.Out,
			context.Background,
		),
		infrastructure.Module,
		// Domain modules
		session.Module,
		settings.Module,
		ratelimit.Module,
		dispatch.Module,
		pipeline.Module, // Must be after dispatch.Module (depends on Dispatcher)
		connection.Module,
		healthhttp.Module, // Must be after connection.Module (depends on ConnectionManager)
	)
}

// CreateSessionApp creates the options for one-shot session commands. It
// leaves out the chat connection and the HTTP server, and only requires the
// scanner configuration.
func CreateSessionApp() fx.Option {
	return fx.Options(
		fx.Provide(config.SessionOut),
		logger.Module,
		database.Module,
		metrics.Module,
		telegram.Module,
		session.Module,
	)
}
