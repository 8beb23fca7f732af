package http

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	conndeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/database"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/http/server"
)

// Module provides the health endpoint for fx DI
var Module = fx.Module("health",
	fx.Provide(NewHealthHandlerFx),
	fx.Invoke(RegisterRoutes),
)

// NewHealthHandlerFx creates the health handler. The database component is
// reported only when a database is configured.
func NewHealthHandlerFx(manager conndeps.ConnectionManager, db *gorm.DB, logger zerolog.Logger) *HealthHandler {
	var checker HealthChecker
	if db != nil {
		checker = database.NewHealthChecker(db)
	}
	return NewHealthHandler(manager, checker, logger.With().Str("component", "health").Logger())
}

// RegisterRoutes registers the health route on the server
func RegisterRoutes(srv *server.Server, handler *HealthHandler) {
	handler.RegisterRoutes(srv.Router)
}
