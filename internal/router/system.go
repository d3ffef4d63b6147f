package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/phonebook/internal/handler"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/static"
)

// registerSystemRoutes registers endpoints that are not part of the phonebook itself:
//  1. Health endpoint, unless disabled in config
//  2. Docs endpoint (OpenAPI UI)
//  3. Static files endpoint (openapi.json)
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	if s.Config.Observability.HealthChecks.Enabled {
		r.GET("/status", h.Health.CheckHealth)
	}

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
