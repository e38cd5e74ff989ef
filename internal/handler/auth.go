package handler

import (
	"net/http"

	"github.com/deppfellow/go-catalog/internal/middleware"
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/deppfellow/go-catalog/internal/service"
	"github.com/deppfellow/go-catalog/internal/session"
	"github.com/labstack/echo/v4"
)

// AuthHandler drives the login and logout flows.
type AuthHandler struct {
	Handler
	auth *service.AuthService
}

func NewAuthHandler(s *server.Server, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    auth,
	}
}

// Login issues the anti-forgery state the client must echo on connect.
func (h *AuthHandler) Login(c echo.Context, req *LoginRequest) (*service.LoginState, error) {
	return h.auth.IssueState(session.FromContext(c), req.Next), nil
}

func (h *AuthHandler) ConnectGoogle(c echo.Context, req *GoogleConnectRequest) (*service.ConnectResult, error) {
	return h.auth.ConnectGoogle(c.Request().Context(), session.FromContext(c), req.State, req.Code)
}

// ConnectClerk runs behind RequireClerk, which verified the bearer token.
func (h *AuthHandler) ConnectClerk(c echo.Context, _ *NoParams) (*service.ConnectResult, error) {
	return h.auth.ConnectClerk(c.Request().Context(), session.FromContext(c), middleware.GetClerkUserID(c))
}

// Logout clears the login and sends the browser home.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess := session.FromContext(c)
	wasLoggedIn := sess.IsLoggedIn()

	h.auth.Disconnect(c.Request().Context(), sess)

	middleware.GetLogger(c).Info().
		Bool("was_logged_in", wasLoggedIn).
		Msg("logged out")

	return c.Redirect(http.StatusFound, "/")
}
