package http

import (
	"context"
	"fmt"
	"time"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	connentities "github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/entities"
	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// HealthChecker defines interface for components that can report their health
type HealthChecker interface {
	// HealthCheck returns true if component is healthy, false otherwise
	HealthCheck(ctx context.Context) bool
}

// ConnectionStatus reports the chat connection state
type ConnectionStatus interface {
	Status() connentities.Status
}

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	connection ConnectionStatus
	database   HealthChecker
	logger     zerolog.Logger
}

// NewHealthHandler creates a new health check handler. database may be nil
// when settings live in memory.
func NewHealthHandler(connection ConnectionStatus, database HealthChecker, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		connection: connection,
		database:   database,
		logger:     logger,
	}
}

// RegisterRoutes registers the health endpoint. It is never behind auth.
func (h *HealthHandler) RegisterRoutes(rt *router.Router) {
	rt.GET("/health", h.Handle)
}

// Handle serves GET /health
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	checkCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	components := h.checkComponents(checkCtx)
	status := determineOverallStatus(components)

	logEvent := h.logger.Debug()
	if status == HealthStatusUnhealthy {
		logEvent = h.logger.Warn()
	}
	logEvent.
		Str("status", string(status)).
		Interface("components", components).
		Msg("Health check completed")

	httputil.WriteHealthResponse(ctx, HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}, status != HealthStatusUnhealthy)
}

func (h *HealthHandler) checkComponents(ctx context.Context) []ComponentHealth {
	components := make([]ComponentHealth, 0, 2)

	st := h.connection.Status()
	conn := ComponentHealth{Name: "connection", Healthy: st.State == connentities.StateReady}
	if !conn.Healthy {
		conn.Message = fmt.Sprintf("connection is %s", st.State)
		if st.LastError != "" {
			conn.Message += ": " + st.LastError
		}
	}
	components = append(components, conn)

	if h.database != nil {
		db := ComponentHealth{Name: "database", Healthy: h.database.HealthCheck(ctx)}
		if !db.Healthy {
			db.Message = "Database is not reachable"
		}
		components = append(components, db)
	}

	return components
}

// determineOverallStatus determines overall health status based on component health
func determineOverallStatus(components []ComponentHealth) HealthStatus {
	allHealthy := true
	anyHealthy := false

	for _, component := range components {
		if !component.Healthy {
			allHealthy = false
		} else {
			anyHealthy = true
		}
	}

	if allHealthy {
		return HealthStatusHealthy
	} else if anyHealthy {
		return HealthStatusDegraded
	}

	return HealthStatusUnhealthy
}
