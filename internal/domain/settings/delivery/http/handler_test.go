package http

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/repository/memory"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/usecase/business"
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
)

type settingsResponse struct {
	Success bool              `json:"success"`
	Data    entities.Settings `json:"data"`
	Error   string            `json:"error"`
}

func newHandler() *Handler {
	store := business.NewStore(memory.NewRepository(), entities.Settings{AutoTyping: true}, zerolog.Nop())
	return NewHandler(store, pkgerrors.NewMapper(zerolog.Nop()), zerolog.Nop())
}

func request(identity, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue("identity", identity)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	return ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx) settingsResponse {
	t.Helper()
	var resp settingsResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	return resp
}

func TestHandler_Get(t *testing.T) {
	h := newHandler()

	ctx := request("user:1", "")
	h.Get(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	resp := decode(t, ctx)
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.AutoTyping)
}

func TestHandler_InvalidIdentity(t *testing.T) {
	h := newHandler()

	ctx := request("nobody", "")
	h.Get(ctx)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestHandler_Toggle(t *testing.T) {
	h := newHandler()

	ctx := request("group:1", `{"flag":"antilink","value":true}`)
	h.Toggle(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.True(t, decode(t, ctx).Data.AntiLink)

	ctx = request("group:1", `{"flag":"warp","value":true}`)
	h.Toggle(ctx)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	ctx = request("group:1", `not json`)
	h.Toggle(ctx)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestHandler_TriggersAndWords(t *testing.T) {
	h := newHandler()

	ctx := request("user:2", `{"trigger":"Hi","response":"hello"}`)
	h.AddTrigger(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, map[string]string{"hi": "hello"}, decode(t, ctx).Data.AutoRespondTriggers)

	ctx = request("user:2", `{"word":"Scam"}`)
	h.AddBannedWord(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, []string{"scam"}, decode(t, ctx).Data.BannedWords)

	ctx = request("user:2", `{"trigger":"hi"}`)
	h.RemoveTrigger(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Empty(t, decode(t, ctx).Data.AutoRespondTriggers)

	ctx = request("user:2", `{"word":"scam"}`)
	h.RemoveBannedWord(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Empty(t, decode(t, ctx).Data.BannedWords)
}

func TestHandler_Put(t *testing.T) {
	h := newHandler()

	ctx := request("user:3", `{"antibot":true,"bannedWords":["x"],"autoRespondTriggers":{}}`)
	h.Put(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	resp := decode(t, ctx)
	assert.True(t, resp.Data.AntiBot)
	assert.False(t, resp.Data.AutoTyping)
	assert.Equal(t, []string{"x"}, resp.Data.BannedWords)
}

func TestHandler_GetActivity(t *testing.T) {
	h := newHandler()

	ctx := request("user:4", "")
	h.GetActivity(ctx)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	ctx = request("group:4", "")
	h.GetActivity(ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}
