package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"rsc.io/qr"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/deps"
	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// QRPayload is the text form of the pending login code
type QRPayload struct {
	QR string `json:"qr"`
}

// Handler serves connection state over HTTP
type Handler struct {
	manager deps.ConnectionManager
	mapper  httputil.ErrorMapper
	logger  zerolog.Logger
}

// NewHandler creates a new connection handler
func NewHandler(manager deps.ConnectionManager, mapper httputil.ErrorMapper, logger zerolog.Logger) *Handler {
	return &Handler{
		manager: manager,
		mapper:  mapper,
		logger:  logger.With().Str("handler", "connection").Logger(),
	}
}

// GetStatus handles GET /api/v1/connection/status
func (h *Handler) GetStatus(ctx *fasthttp.RequestCtx) {
	httputil.WriteResponse(ctx, h.manager.Status())
}

// GetQR handles GET /api/v1/connection/qr.
// Returns a PNG unless format=text is requested.
func (h *Handler) GetQR(ctx *fasthttp.RequestCtx) {
	payload, err := h.manager.CurrentQR()
	if err != nil {
		httputil.WriteMappedError(ctx, h.mapper, err)
		return
	}

	if string(ctx.QueryArgs().Peek("format")) == "text" {
		httputil.WriteResponse(ctx, QRPayload{QR: payload})
		return
	}

	code, err := qr.Encode(payload, qr.L)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode QR code")
		httputil.WriteErrorResponse(ctx, "failed to generate QR code", fasthttp.StatusInternalServerError)
		return
	}

	httputil.WriteBinary(ctx, "image/png", code.PNG())
}
