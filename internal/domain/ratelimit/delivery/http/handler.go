package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/ratelimit/deps"
	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// Quota is the remaining command budget of an identity
type Quota struct {
	Identity  string `json:"identity"`
	Remaining int    `json:"remaining"`
}

// Handler serves rate limiter administration
type Handler struct {
	limiter deps.Limiter
	mapper  httputil.ErrorMapper
	logger  zerolog.Logger
}

// NewHandler creates a new rate limit handler
func NewHandler(limiter deps.Limiter, mapper httputil.ErrorMapper, logger zerolog.Logger) *Handler {
	return &Handler{
		limiter: limiter,
		mapper:  mapper,
		logger:  logger.With().Str("handler", "ratelimit").Logger(),
	}
}

func (h *Handler) identity(ctx *fasthttp.RequestCtx) (string, bool) {
	identity, _ := ctx.UserValue("identity").(string)
	if _, _, err := domain.ParseIdentity(identity); err != nil {
		httputil.WriteMappedError(ctx, h.mapper, err)
		return "", false
	}
	return identity, true
}

// GetRemaining handles GET /api/v1/ratelimit/{identity}
func (h *Handler) GetRemaining(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}
	httputil.WriteResponse(ctx, Quota{Identity: identity, Remaining: h.limiter.Remaining(identity)})
}

// Reset handles DELETE /api/v1/ratelimit/{identity}
func (h *Handler) Reset(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	h.limiter.Reset(identity)
	h.logger.Info().Str("identity", identity).Msg("Rate limit reset")

	httputil.WriteResponse(ctx, Quota{Identity: identity, Remaining: h.limiter.Remaining(identity)})
}
