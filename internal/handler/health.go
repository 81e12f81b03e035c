package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/sportspredict/internal/middleware"
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"

	defaultHealthTimeout = 5 * time.Second
)

// dependencyCheck probes one dependency. A failed required check turns the
// response into a 503; a failed optional one only degrades it.
type dependencyCheck struct {
	name     string
	required bool
	ping     func(ctx context.Context) error
}

type ServiceStatus struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
}

type HealthResponse struct {
	Status      string                   `json:"status"`
	Timestamp   time.Time                `json:"timestamp"`
	Environment string                   `json:"environment"`
	Services    map[string]ServiceStatus `json:"services"`
}

type HealthHandler struct {
	Handler
	checks  []dependencyCheck
	timeout time.Duration
}

// NewHealthHandler probes the database (required) and Redis (optional, only
// when configured) unless disabled in the observability config.
func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{
		Handler: NewHandler(s),
		timeout: defaultHealthTimeout,
	}

	obs := s.Config.Observability
	enabled := func(name string) bool { return obs == nil || obs.HealthCheckEnabled(name) }
	if obs != nil && obs.HealthChecks.Timeout > 0 {
		h.timeout = obs.HealthChecks.Timeout
	}

	if s.DB != nil && enabled("database") {
		h.checks = append(h.checks, dependencyCheck{
			name:     "database",
			required: true,
			ping:     s.DB.Pool.Ping,
		})
	}
	if s.Redis != nil && enabled("redis") {
		h.checks = append(h.checks, dependencyCheck{
			name: "redis",
			ping: func(ctx context.Context) error { return s.Redis.Ping(ctx).Err() },
		})
	}

	return h
}

// CheckHealth answers 200 when every required dependency responds and 503
// otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   start.UTC(),
		Environment: h.server.Config.Primary.Env,
		Services:    make(map[string]ServiceStatus, len(h.checks)),
	}

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := check.ping(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		if err == nil {
			response.Services[check.name] = ServiceStatus{Status: statusHealthy, ResponseTime: elapsed.String()}
			continue
		}

		response.Services[check.name] = ServiceStatus{Status: statusUnhealthy, ResponseTime: elapsed.String()}
		switch {
		case check.required:
			response.Status = statusUnhealthy
		case response.Status == statusHealthy:
			response.Status = statusDegraded
		}

		logger.Error().
			Err(err).
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]any{
				"check_type":       check.name,
				"operation":        "health_check",
				"error_type":       check.name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
		}
	}

	if response.Status == statusUnhealthy {
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}
