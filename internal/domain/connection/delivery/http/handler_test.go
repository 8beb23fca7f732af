package http

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/entities"
	connerrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/errors"
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

type mockManager struct {
	status entities.Status
	qr     string
	qrErr  error
}

func (m *mockManager) Start(context.Context) error { return nil }
func (m *mockManager) Stop(context.Context) error  { return nil }
func (m *mockManager) Status() entities.Status     { return m.status }
func (m *mockManager) CurrentQR() (string, error)  { return m.qr, m.qrErr }
func (m *mockManager) Fatal() <-chan error         { return nil }

func newHandler(m *mockManager) *Handler {
	return NewHandler(m, pkgerrors.NewMapper(zerolog.Nop()), zerolog.Nop())
}

func TestHandler_GetStatus(t *testing.T) {
	h := newHandler(&mockManager{status: entities.Status{State: entities.StateReady, Identity: "user:1"}})

	ctx := &fasthttp.RequestCtx{}
	h.GetStatus(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp struct {
		Success bool            `json:"success"`
		Data    entities.Status `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, entities.StateReady, resp.Data.State)
	assert.Equal(t, "user:1", resp.Data.Identity)
}

func TestHandler_GetQR(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		h := newHandler(&mockManager{qr: "tg://login?token=abc"})

		ctx := &fasthttp.RequestCtx{}
		h.GetQR(ctx)

		require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		assert.Equal(t, "image/png", string(ctx.Response.Header.ContentType()))
		assert.True(t, bytes.HasPrefix(ctx.Response.Body(), []byte("\x89PNG")))
	})

	t.Run("text", func(t *testing.T) {
		h := newHandler(&mockManager{qr: "tg://login?token=abc"})

		ctx := &fasthttp.RequestCtx{}
		ctx.Request.SetRequestURI("/api/v1/connection/qr?format=text")
		h.GetQR(ctx)

		require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		assert.Contains(t, string(ctx.Response.Body()), "tg://login?token=abc")
	})

	t.Run("none pending", func(t *testing.T) {
		h := newHandler(&mockManager{qrErr: connerrors.ErrNoQRCode})

		ctx := &fasthttp.RequestCtx{}
		h.GetQR(ctx)

		assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

		var resp httputil.Response
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.False(t, resp.Success)
	})
}
