package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// HealthCheck reports the health of one component. Nil means healthy.
// Details, when set, is rendered alongside the result either way.
type HealthCheck struct {
	Name    string
	Check   func(ctx context.Context) error
	Details func() map[string]any
}

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler answers /health. Any failing component makes the service unhealthy,
// since relaying needs all of them.
type HealthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
	logger  zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(logger zerolog.Logger, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 5 * time.Second,
		logger:  logger.With().Str("component", "health").Logger(),
	}
}

// Handle implements fasthttp.RequestHandler
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	checkCtx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	response := HealthResponse{
		Status:     HealthStatusHealthy,
		Timestamp:  time.Now().UTC(),
		Components: make([]ComponentHealth, 0, len(h.checks)),
	}

	for _, c := range h.checks {
		component := ComponentHealth{Name: c.Name, Healthy: true}
		if err := c.Check(checkCtx); err != nil {
			component.Healthy = false
			component.Message = err.Error()
			response.Status = HealthStatusUnhealthy
		}
		if c.Details != nil {
			component.Details = c.Details()
		}
		response.Components = append(response.Components, component)
	}

	statusCode := fasthttp.StatusOK
	logEvent := h.logger.Debug()
	if response.Status == HealthStatusUnhealthy {
		statusCode = fasthttp.StatusServiceUnavailable
		logEvent = h.logger.Warn()
	}
	logEvent.
		Str("status", string(response.Status)).
		Interface("components", response.Components).
		Msg("Health check completed")

	body, err := json.Marshal(response)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)
	ctx.SetBody(body)
}
