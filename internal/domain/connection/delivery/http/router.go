package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// Router registers connection HTTP routes
type Router struct {
	handler *Handler
	token   string
	logger  zerolog.Logger
}

// NewRouter creates a new connection router. Routes require token and stay
// closed when it is empty.
func NewRouter(handler *Handler, token string, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		token:   token,
		logger:  logger,
	}
}

// RegisterRoutes registers connection routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	api := httputil.NewMiddlewareGroup(rt.Group("/api/v1/connection")).Use(httputil.BearerAuth(r.token))
	api.GET("/status", r.handler.GetStatus)
	api.GET("/qr", r.handler.GetQR)

	r.logger.Info().Msg("Connection routes registered")
}
