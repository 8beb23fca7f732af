package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// Router registers settings HTTP routes
type Router struct {
	handler *Handler
	token   string
	logger  zerolog.Logger
}

// NewRouter creates a new settings router
func NewRouter(handler *Handler, token string, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		token:   token,
		logger:  logger,
	}
}

// RegisterRoutes registers settings routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	api := httputil.NewMiddlewareGroup(rt.Group("/api/v1/settings")).Use(httputil.BearerAuth(r.token))

	api.GET("/{identity}", r.handler.Get)
	api.PUT("/{identity}", r.handler.Put)
	api.POST("/{identity}/toggle", r.handler.Toggle)
	api.POST("/{identity}/triggers", r.handler.AddTrigger)
	api.DELETE("/{identity}/triggers", r.handler.RemoveTrigger)
	api.POST("/{identity}/banned-words", r.handler.AddBannedWord)
	api.DELETE("/{identity}/banned-words", r.handler.RemoveBannedWord)
	api.GET("/{identity}/activity", r.handler.GetActivity)

	if r.token == "" {
		r.logger.Warn().Msg("ADMIN_TOKEN not set, settings API disabled")
	}
	r.logger.Info().Msg("Settings routes registered")
}
