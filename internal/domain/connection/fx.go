package connection

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/audit"
	connhttp "github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/delivery/http"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/usecase/business"
	sessiondeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/http/server"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// Module provides connection lifecycle components for fx DI.
// deps.Client is provided by the telegram infrastructure module.
var Module = fx.Module("connection",
	fx.Provide(
		func(p sessiondeps.Provider) deps.SessionProvider { return p },
		NewManagerFx,
		func(m *business.Manager) deps.ConnectionManager { return m },
		NewHandlerFx,
		NewRouterFx,
	),
	fx.Invoke(RegisterRoutes),
)

// ManagerParams groups manager dependencies
type ManagerParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Scanner    *config.ScannerConfig
	Connection *config.ConnectionConfig
	Features   *config.FeaturesConfig
	Provider   deps.SessionProvider
	Client     deps.Client
	Audit      audit.Publisher
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

// NewManagerFx creates the connection manager and ties it to the app lifecycle.
// A terminal connection failure shuts the process down with a non-zero code.
func NewManagerFx(p ManagerParams) *business.Manager {
	manager := business.NewManager(business.Config{
		SessionID:        p.Scanner.SessionID,
		InitTimeout:      p.Connection.InitTimeout,
		PresenceInterval: p.Connection.PresenceInterval,
		AlwaysOnline:     p.Features.AlwaysOnline,
	}, p.Provider, p.Client, p.Audit, p.Metrics, p.Logger)

	watchCtx, cancelWatch := context.WithCancel(context.Background())

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				select {
				case err := <-manager.Fatal():
					p.Logger.Error().Err(err).Msg("Connection failed permanently, shutting down")
					if shutdownErr := p.Shutdowner.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
						p.Logger.Error().Err(shutdownErr).Msg("Failed to request shutdown")
					}
				case <-watchCtx.Done():
				}
			}()
			return manager.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			cancelWatch()
			return manager.Stop(ctx)
		},
	})

	return manager
}

// NewHandlerFx creates the connection HTTP handler for fx DI
func NewHandlerFx(manager deps.ConnectionManager, mapper httputil.ErrorMapper, logger zerolog.Logger) *connhttp.Handler {
	return connhttp.NewHandler(manager, mapper, logger)
}

// NewRouterFx creates the connection router for fx DI
func NewRouterFx(handler *connhttp.Handler, serviceCfg *config.ServiceConfig, logger zerolog.Logger) *connhttp.Router {
	return connhttp.NewRouter(handler, serviceCfg.AdminToken, logger)
}

// RegisterRoutes registers connection routes on the server
func RegisterRoutes(srv *server.Server, router *connhttp.Router) {
	router.RegisterRoutes(srv.Router)
}
