package ratelimit

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/SAVX-BOY/dead-x-bot/config"
	ratelimithttp "github.com/SAVX-BOY/dead-x-bot/internal/domain/ratelimit/delivery/http"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/ratelimit/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/ratelimit/usecase/business"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/http/server"
	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// Module provides the command rate limiter for fx DI
var Module = fx.Module("ratelimit",
	fx.Provide(
		NewLimiterFx,
		NewHandlerFx,
		NewRouterFx,
	),
	fx.Invoke(RegisterRoutes),
)

// NewLimiterFx creates the limiter and runs its sweeper for the app lifetime
func NewLimiterFx(lc fx.Lifecycle, cfg *config.RateLimitConfig, logger zerolog.Logger) deps.Limiter {
	limiter := business.NewLimiter(business.Config{
		MaxCommands:   cfg.MaxCommands,
		Window:        cfg.Window,
		SweepInterval: cfg.SweepInterval,
	}, logger)

	sweepCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				limiter.Run(sweepCtx)
			}()
			logger.Info().
				Int("max_commands", cfg.MaxCommands).
				Dur("window", cfg.Window).
				Msg("Rate limiter started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	return limiter
}

// NewHandlerFx creates the rate limit HTTP handler for fx DI
func NewHandlerFx(limiter deps.Limiter, mapper httputil.ErrorMapper, logger zerolog.Logger) *ratelimithttp.Handler {
	return ratelimithttp.NewHandler(limiter, mapper, logger)
}

// NewRouterFx creates the rate limit router for fx DI
func NewRouterFx(handler *ratelimithttp.Handler, serviceCfg *config.ServiceConfig, logger zerolog.Logger) *ratelimithttp.Router {
	return ratelimithttp.NewRouter(handler, serviceCfg.AdminToken, logger)
}

// RegisterRoutes registers rate limit routes on the server
func RegisterRoutes(srv *server.Server, router *ratelimithttp.Router) {
	router.RegisterRoutes(srv.Router)
}
