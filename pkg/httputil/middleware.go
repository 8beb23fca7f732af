package httputil

import (
	"crypto/subtle"
	"runtime/debug"
	"time"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Middleware is a function that wraps a handler
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// MiddlewareGroup wraps a router group with middleware support
type MiddlewareGroup struct {
	group      *router.Group
	middleware []Middleware
}

// NewMiddlewareGroup creates a new middleware group
func NewMiddlewareGroup(group *router.Group) *MiddlewareGroup {
	return &MiddlewareGroup{
		group:      group,
		middleware: make([]Middleware, 0),
	}
}

// Use adds middleware to the group
func (g *MiddlewareGroup) Use(m ...Middleware) *MiddlewareGroup {
	g.middleware = append(g.middleware, m...)
	return g
}

// Group creates a new sub-group with inherited middleware
func (g *MiddlewareGroup) Group(path string) *MiddlewareGroup {
	return &MiddlewareGroup{
		group:      g.group.Group(path),
		middleware: append([]Middleware{}, g.middleware...),
	}
}

func (g *MiddlewareGroup) applyMiddleware(handler fasthttp.RequestHandler) fasthttp.RequestHandler {
	for i := len(g.middleware) - 1; i >= 0; i-- {
		handler = g.middleware[i](handler)
	}
	return handler
}

// GET registers a GET handler
func (g *MiddlewareGroup) GET(path string, handler fasthttp.RequestHandler) {
	g.group.GET(path, g.applyMiddleware(handler))
}

// POST registers a POST handler
func (g *MiddlewareGroup) POST(path string, handler fasthttp.RequestHandler) {
	g.group.POST(path, g.applyMiddleware(handler))
}

// PUT registers a PUT handler
func (g *MiddlewareGroup) PUT(path string, handler fasthttp.RequestHandler) {
	g.group.PUT(path, g.applyMiddleware(handler))
}

// DELETE registers a DELETE handler
func (g *MiddlewareGroup) DELETE(path string, handler fasthttp.RequestHandler) {
	g.group.DELETE(path, g.applyMiddleware(handler))
}

// RequestLogger logs method, path, status and latency of each request
func RequestLogger(logger zerolog.Logger) Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)
			logger.Debug().
				Str("method", string(ctx.Method())).
				Str("path", string(ctx.Path())).
				Int("status", ctx.Response.StatusCode()).
				Dur("latency", time.Since(start)).
				Msg("http request")
		}
	}
}

// Recover turns a handler panic into a 500 response
func Recover(logger zerolog.Logger) Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().
						Interface("panic", r).
						Str("stack", string(debug.Stack())).
						Msg("http handler panic recovered")
					WriteErrorResponse(ctx, "internal server error", fasthttp.StatusInternalServerError)
				}
			}()
			next(ctx)
		}
	}
}

// BearerAuth rejects requests whose Authorization header does not carry token.
// An empty token closes the routes entirely.
func BearerAuth(token string) Middleware {
	expected := []byte("Bearer " + token)
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if token == "" {
			return func(ctx *fasthttp.RequestCtx) {
				WriteErrorResponse(ctx, "admin API disabled", fasthttp.StatusForbidden)
			}
		}
		return func(ctx *fasthttp.RequestCtx) {
			got := ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)
			if subtle.ConstantTimeCompare(got, expected) != 1 {
				WriteErrorResponse(ctx, "unauthorized", fasthttp.StatusUnauthorized)
				return
			}
			next(ctx)
		}
	}
}
