package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/go-catalog/internal/errs"
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/labstack/echo/v4"
)

// ClerkUserIDKey holds the Clerk user id of a verified session token.
const ClerkUserIDKey = "clerk_user_id"

// AuthMiddleware verifies Clerk session tokens.
type AuthMiddleware struct {
	server *server.Server
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireClerk wraps Clerk's net/http middleware, which validates the
// "Authorization: Bearer <token>" header, and stores the token's subject
// under ClerkUserIDKey. It does not log the browser session in; the Clerk
// connect handler does that.
func (auth *AuthMiddleware) RequireClerk(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.writeUnauthorized)),
		))(
		func(c echo.Context) error {
			start := time.Now()

			claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
			if !ok {
				GetLogger(c).Error().
					Str("function", "RequireClerk").
					Dur("duration", time.Since(start)).
					Msg("could not get session claims from context")

				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			c.Set(ClerkUserIDKey, claims.Subject)

			GetLogger(c).Info().
				Str("function", "RequireClerk").
				Str("clerk_user_id", claims.Subject).
				Dur("duration", time.Since(start)).
				Msg("clerk token verified")

			return next(c)
		})
}

// writeUnauthorized runs outside echo, so it renders the same body the
// global error handler would.
func (auth *AuthMiddleware) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
		auth.server.Logger.Error().
			Err(err).
			Str("function", "RequireClerk").
			Msg("failed to write JSON response")
		return
	}

	auth.server.Logger.Warn().
		Str("function", "RequireClerk").
		Str("path", r.URL.Path).
		Msg("clerk token rejected")
}

// GetClerkUserID returns the subject stored by RequireClerk.
func GetClerkUserID(c echo.Context) string {
	if id, ok := c.Get(ClerkUserIDKey).(string); ok {
		return id
	}
	return ""
}
