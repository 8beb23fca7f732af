package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	connentities "github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/entities"
)

type mockConnection struct {
	status connentities.Status
}

func (m *mockConnection) Status() connentities.Status { return m.status }

type mockChecker struct {
	healthy bool
}

func (m *mockChecker) HealthCheck(context.Context) bool { return m.healthy }

func serve(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()

	ctx := &fasthttp.RequestCtx{}
	h.Handle(ctx)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	return ctx.Response.StatusCode(), resp
}

func TestHealthHandler_AllHealthy(t *testing.T) {
	h := NewHealthHandler(
		&mockConnection{status: connentities.Status{State: connentities.StateReady}},
		&mockChecker{healthy: true},
		zerolog.Nop(),
	)

	code, resp := serve(t, h)

	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, HealthStatusHealthy, resp.Status)
	assert.Len(t, resp.Components, 2)
}

func TestHealthHandler_Degraded(t *testing.T) {
	h := NewHealthHandler(
		&mockConnection{status: connentities.Status{State: connentities.StateQRPending}},
		&mockChecker{healthy: true},
		zerolog.Nop(),
	)

	code, resp := serve(t, h)

	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, HealthStatusDegraded, resp.Status)
	assert.Equal(t, "connection is qr_pending", resp.Components[0].Message)
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	h := NewHealthHandler(
		&mockConnection{status: connentities.Status{State: connentities.StateConnecting, LastError: "timed-out"}},
		nil,
		zerolog.Nop(),
	)

	code, resp := serve(t, h)

	assert.Equal(t, fasthttp.StatusServiceUnavailable, code)
	assert.Equal(t, HealthStatusUnhealthy, resp.Status)
	require.Len(t, resp.Components, 1)
	assert.Equal(t, "connection is connecting: timed-out", resp.Components[0].Message)
}

func TestDetermineOverallStatus(t *testing.T) {
	assert.Equal(t, HealthStatusHealthy, determineOverallStatus(nil))
	assert.Equal(t, HealthStatusUnhealthy, determineOverallStatus([]ComponentHealth{{Healthy: false}}))
}
