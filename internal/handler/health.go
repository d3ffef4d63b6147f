package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/middleware"
	"github.com/deppfellow/phonebook/internal/server"
)

// HealthHandler exposes a "system" endpoint that monitors and load balancers
// use to verify the service is alive and its record store is reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns system health status and the record store check.
//
// Response includes:
//   - overall status (healthy/unhealthy)
//   - timestamp (UTC)
//   - environment (from config)
//   - store driver and checks map
//
// 200 OK when every check passes, 503 Service Unavailable otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any)
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"store":       h.server.Config.Store.Driver,
		"checks":      checks,
	}

	isHealthy := true
	if name, ping := h.storePing(); ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
		defer cancel()

		checkStart := time.Now()
		if err := ping(ctx); err != nil {
			isHealthy = false
			checks[name] = map[string]any{
				"status":        "unhealthy",
				"response_time": time.Since(checkStart).String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(checkStart)).
				Msgf("%s health check failed", name)

			h.recordHealthCheckError(name, map[string]any{
				"error_type":       name + "_unhealthy",
				"response_time_ms": time.Since(checkStart).Milliseconds(),
				"error_message":    err.Error(),
			})
		} else {
			checks[name] = map[string]any{
				"status":        "healthy",
				"response_time": time.Since(checkStart).String(),
			}
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// storePing returns the connectivity check for the configured store.
// The in-memory store has nothing to check.
func (h *HealthHandler) storePing() (string, func(context.Context) error) {
	switch h.server.Config.Store.Driver {
	case config.DriverPostgres:
		if h.server.DB != nil {
			return "database", h.server.DB.Pool.Ping
		}
	case config.DriverRedis:
		if h.server.Redis != nil {
			return "redis", func(ctx context.Context) error {
				return h.server.Redis.Ping(ctx).Err()
			}
		}
	}
	return "", nil
}

// recordHealthCheckError records a New Relic custom event if enabled.
func (h *HealthHandler) recordHealthCheckError(checkType string, attrs map[string]any) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	attrs["check_type"] = checkType
	attrs["operation"] = "health_check"
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
}
