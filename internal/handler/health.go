package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/go-catalog/internal/middleware"
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/labstack/echo/v4"
)

// healthCheck probes one dependency.
type healthCheck struct {
	name  string
	probe func(ctx context.Context) error
}

// HealthHandler reports whether the service and its dependencies are up.
type HealthHandler struct {
	Handler
	checks  []healthCheck
	timeout time.Duration
}

// NewHealthHandler probes the dependencies enabled in the observability
// config.
func NewHealthHandler(s *server.Server) *HealthHandler {
	obs := s.Config.Observability

	var checks []healthCheck
	if obs.HasCheck("database") {
		checks = append(checks, healthCheck{name: "database", probe: s.DB.Pool.Ping})
	}
	if obs.HasCheck("redis") && s.Redis != nil {
		checks = append(checks, healthCheck{name: "redis", probe: func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}})
	}

	return &HealthHandler{
		Handler: NewHandler(s),
		checks:  checks,
		timeout: obs.HealthChecks.Timeout,
	}
}

// CheckHealth answers 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{}, len(h.checks))
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}
	isHealthy := true

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := check.probe(ctx)
		cancel()
		elapsed := time.Since(checkStart)

		if err != nil {
			isHealthy = false
			checks[check.name] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Str("check", check.name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			h.recordEvent(map[string]interface{}{
				"check_type":       check.name,
				"operation":        "health_check",
				"error_type":       check.name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
			continue
		}

		checks[check.name] = map[string]interface{}{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}
		logger.Debug().
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msg("health check passed")
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordEvent(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordEvent(attrs map[string]interface{}) {
	if h.server.LoggerService == nil {
		return
	}
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
