package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// Router registers rate limit HTTP routes
type Router struct {
	handler *Handler
	token   string
	logger  zerolog.Logger
}

// NewRouter creates a new rate limit router
func NewRouter(handler *Handler, token string, logger zerolog.Logger) *Router {
	return &Router{handler: handler, token: token, logger: logger}
}

// RegisterRoutes registers rate limit routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	api := httputil.NewMiddlewareGroup(rt.Group("/api/v1/ratelimit")).Use(httputil.BearerAuth(r.token))
	api.GET("/{identity}", r.handler.GetRemaining)
	api.DELETE("/{identity}", r.handler.Reset)

	r.logger.Info().Msg("Rate limit routes registered")
}
