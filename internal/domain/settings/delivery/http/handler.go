package http

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/dto"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
	settingserrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/errors"
	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// Handler serves the settings admin API
type Handler struct {
	store  deps.Store
	mapper httputil.ErrorMapper
	logger zerolog.Logger
}

// NewHandler creates a new settings handler
func NewHandler(store deps.Store, mapper httputil.ErrorMapper, logger zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		mapper: mapper,
		logger: logger.With().Str("handler", "settings").Logger(),
	}
}

func identityOf(ctx *fasthttp.RequestCtx) string {
	identity, _ := ctx.UserValue("identity").(string)
	return identity
}

func (h *Handler) decode(ctx *fasthttp.RequestCtx, v interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		httputil.WriteMappedError(ctx, h.mapper, settingserrors.ErrInvalidBody)
		return false
	}
	return true
}

func (h *Handler) respond(ctx *fasthttp.RequestCtx, settings entities.Settings, err error) {
	if err != nil {
		httputil.WriteMappedError(ctx, h.mapper, err)
		return
	}
	httputil.WriteResponse(ctx, settings)
}

// Get handles GET /api/v1/settings/{identity}
func (h *Handler) Get(ctx *fasthttp.RequestCtx) {
	settings, err := h.store.Get(ctx, identityOf(ctx))
	h.respond(ctx, settings, err)
}

// Put handles PUT /api/v1/settings/{identity}
func (h *Handler) Put(ctx *fasthttp.RequestCtx) {
	var settings entities.Settings
	if !h.decode(ctx, &settings) {
		return
	}

	identity := identityOf(ctx)
	if err := h.store.Set(ctx, identity, settings); err != nil {
		httputil.WriteMappedError(ctx, h.mapper, err)
		return
	}

	current, err := h.store.Get(ctx, identity)
	h.respond(ctx, current, err)
}

// Toggle handles POST /api/v1/settings/{identity}/toggle
func (h *Handler) Toggle(ctx *fasthttp.RequestCtx) {
	var req dto.ToggleRequest
	if !h.decode(ctx, &req) {
		return
	}

	settings, err := h.store.Toggle(ctx, identityOf(ctx), req.Flag, req.Value)
	h.respond(ctx, settings, err)
}

// AddTrigger handles POST /api/v1/settings/{identity}/triggers
func (h *Handler) AddTrigger(ctx *fasthttp.RequestCtx) {
	var req dto.TriggerRequest
	if !h.decode(ctx, &req) {
		return
	}

	settings, err := h.store.AddTrigger(ctx, identityOf(ctx), req.Trigger, req.Response)
	h.respond(ctx, settings, err)
}

// RemoveTrigger handles DELETE /api/v1/settings/{identity}/triggers
func (h *Handler) RemoveTrigger(ctx *fasthttp.RequestCtx) {
	var req dto.TriggerRequest
	if !h.decode(ctx, &req) {
		return
	}

	settings, err := h.store.RemoveTrigger(ctx, identityOf(ctx), req.Trigger)
	h.respond(ctx, settings, err)
}

// AddBannedWord handles POST /api/v1/settings/{identity}/banned-words
func (h *Handler) AddBannedWord(ctx *fasthttp.RequestCtx) {
	var req dto.WordRequest
	if !h.decode(ctx, &req) {
		return
	}

	settings, err := h.store.AddBannedWord(ctx, identityOf(ctx), req.Word)
	h.respond(ctx, settings, err)
}

// RemoveBannedWord handles DELETE /api/v1/settings/{identity}/banned-words
func (h *Handler) RemoveBannedWord(ctx *fasthttp.RequestCtx) {
	var req dto.WordRequest
	if !h.decode(ctx, &req) {
		return
	}

	settings, err := h.store.RemoveBannedWord(ctx, identityOf(ctx), req.Word)
	h.respond(ctx, settings, err)
}

// GetActivity handles GET /api/v1/settings/{identity}/activity
func (h *Handler) GetActivity(ctx *fasthttp.RequestCtx) {
	activity, err := h.store.Activity(ctx, identityOf(ctx))
	if err != nil {
		httputil.WriteMappedError(ctx, h.mapper, err)
		return
	}
	httputil.WriteResponse(ctx, activity)
}
