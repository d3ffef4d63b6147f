// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/phonebook/internal/handler"
	"github.com/deppfellow/phonebook/internal/middleware"
	"github.com/deppfellow/phonebook/internal/server"
)

// NewRouter builds the Echo instance serving the whole HTTP surface.
//
// Middleware order matters:
//  1. RequestID first so every later log line and error response carries it
//  2. New Relic transaction, then attributes on it
//  3. ContextEnhancer, which reads both of the above into the request logger
//  4. CORS and secure headers
//  5. RequestLogger, which sees the final error of the chain below it
//  6. Recover innermost so panics become errors for the layers above
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mws := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = mws.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		mws.Tracing.NewRelicMiddleware(),
		mws.Tracing.EnhanceTracing(),
		mws.ContextEnhancer.EnhanceContext(),
		mws.Global.CORS(),
		mws.Global.Secure(),
		mws.Global.RequestLogger(),
		mws.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)

	router.GET("/info", h.Info.GetInfo)

	registerPersonRoutes(router.Group("/api/persons"), h)

	return router
}
