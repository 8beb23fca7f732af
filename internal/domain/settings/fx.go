package settings

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/SAVX-BOY/dead-x-bot/config"
	settingshttp "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/delivery/http"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/repository/memory"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/repository/postgres"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/usecase/business"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/http/server"
	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// Module provides settings domain components for fx DI
var Module = fx.Module("settings",
	fx.Provide(
		NewRepositoryFx,
		NewStoreFx,
		NewHandlerFx,
		NewRouterFx,
	),
	fx.Invoke(RegisterRoutes),
)

// NewRepositoryFx picks the durable repository when a database is configured
func NewRepositoryFx(db *gorm.DB, logger zerolog.Logger) deps.Repository {
	if db == nil {
		logger.Warn().Msg("Settings are kept in memory and will not survive a restart")
		return memory.NewRepository()
	}
	return postgres.NewRepository(db)
}

// DefaultsFrom builds the default settings from feature flags
func DefaultsFrom(features *config.FeaturesConfig) entities.Settings {
	return entities.Settings{
		AutoTyping:          features.AutoTyping,
		AutoRecording:       features.AutoRecording,
		AlwaysOnline:        features.AlwaysOnline,
		AntiLink:            features.AntiLink,
		AntiBot:             features.AntiBot,
		AutoRespond:         features.AutoRespond,
		AutoRespondTriggers: map[string]string{},
		BannedWords:         []string{},
	}
}

// NewStoreFx creates the settings store for fx DI
func NewStoreFx(repo deps.Repository, features *config.FeaturesConfig, logger zerolog.Logger) deps.Store {
	return business.NewStore(repo, DefaultsFrom(features), logger)
}

// NewHandlerFx creates the settings HTTP handler for fx DI
func NewHandlerFx(store deps.Store, mapper httputil.ErrorMapper, logger zerolog.Logger) *settingshttp.Handler {
	return settingshttp.NewHandler(store, mapper, logger)
}

// NewRouterFx creates the settings router for fx DI
func NewRouterFx(handler *settingshttp.Handler, serviceCfg *config.ServiceConfig, logger zerolog.Logger) *settingshttp.Router {
	return settingshttp.NewRouter(handler, serviceCfg.AdminToken, logger)
}

// RegisterRoutes registers settings routes on the server
func RegisterRoutes(srv *server.Server, router *settingshttp.Router) {
	router.RegisterRoutes(srv.Router)
}
