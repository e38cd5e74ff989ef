// Package router builds the echo instance: global middleware, the error
// handler and every route.
package router

import (
	"net/http"

	"github.com/deppfellow/go-catalog/internal/handler"
	"github.com/deppfellow/go-catalog/internal/middleware"
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter registers middleware in dependency order: request ids before
// tracing, sessions before the context logger so user_id reaches both.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	r := echo.New()
	r.HideBanner = true
	r.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	r.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Session.Sessions(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
		mw.Global.Secure(),
		mw.Global.CORS(),
	)

	registerSystemRoutes(r, h)
	registerCatalogRoutes(r, h, mw)
	registerAuthRoutes(r, s, h, mw)

	r.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/catalog")
	})

	return r
}
