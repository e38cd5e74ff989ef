package router

import (
	"net/http"

	"github.com/deppfellow/go-catalog/internal/handler"
	"github.com/deppfellow/go-catalog/internal/middleware"
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/labstack/echo/v4"
)

// registerAuthRoutes throttles the connect endpoints. The Clerk route exists
// only when a Clerk secret key is configured.
func registerAuthRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers, mw *middleware.Middlewares) {
	ah := h.Auth

	r.GET("/login", handler.Handle(ah.Handler, ah.Login, http.StatusOK, &handler.LoginRequest{}))
	r.GET("/logout", ah.Logout)

	auth := r.Group("/auth", mw.RateLimit.Limit())
	auth.POST("/google/connect", handler.Handle(ah.Handler, ah.ConnectGoogle, http.StatusOK, &handler.GoogleConnectRequest{}))

	if s.Config.Auth.ClerkSecretKey != "" {
		auth.POST("/clerk/connect", handler.Handle(ah.Handler, ah.ConnectClerk, http.StatusOK, &handler.NoParams{}),
			mw.Auth.RequireClerk)
	}
}
