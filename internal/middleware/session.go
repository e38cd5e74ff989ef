package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/go-catalog/internal/errs"
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/deppfellow/go-catalog/internal/session"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// LoginPath is where LoginRequired sends anonymous visitors.
const LoginPath = "/login"

// SessionMiddleware ties the session store to the session cookie.
type SessionMiddleware struct {
	store      session.Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionMiddleware builds the middleware on the server's session store.
func NewSessionMiddleware(s *server.Server) *SessionMiddleware {
	return newSessionMiddleware(s.Sessions, s.Config.Auth.SessionCookie, s.Config.Auth.SessionTTL, s.Config.IsProduction())
}

func newSessionMiddleware(store session.Store, cookieName string, ttl time.Duration, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		store:      store,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Sessions loads the session named by the cookie, or starts a new one, and
// exposes it through session.FromContext.
//
// A modified session is saved right before the response is written, so
// handlers and the global error handler can both change it. A stored but
// unchanged session only has its TTL restarted. Either way the cookie is
// re-sent so its expiry slides with the stored one.
func (sm *SessionMiddleware) Sessions() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, stored := sm.load(c)
			session.WithSession(c, sess)

			if userID, ok := sess.CurrentUserID(); ok {
				c.Set(UserIDKey, strconv.FormatInt(userID, 10))
			}

			persisted := false
			persist := func() {
				if persisted {
					return
				}
				persisted = true
				sm.persist(c, sess, stored)
			}
			c.Response().Before(persist)

			err := next(c)
			if err == nil && !c.Response().Committed {
				persist()
			}
			return err
		}
	}
}

// LoginRequired redirects anonymous visitors to the login page with the
// original URL in "next". Clients asking for JSON get a 401 carrying the
// same redirect as an action.
func (sm *SessionMiddleware) LoginRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if session.FromContext(c).IsLoggedIn() {
			return next(c)
		}

		loginURL := LoginPath + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())

		GetLogger(c).Debug().
			Str("login_url", loginURL).
			Msg("login required")

		if wantsJSON(c.Request()) {
			return errs.NewLoginRequiredError(loginURL)
		}
		return c.Redirect(http.StatusFound, loginURL)
	}
}

// load reports whether the session came from the store.
func (sm *SessionMiddleware) load(c echo.Context) (*session.Session, bool) {
	cookie, err := c.Cookie(sm.cookieName)
	if err != nil {
		return session.New(), false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return session.New(), false
	}

	sess, err := sm.store.Load(c.Request().Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			GetLogger(c).Error().Err(err).Msg("failed to load session")
		}
		return session.New(), false
	}
	return sess, true
}

func (sm *SessionMiddleware) persist(c echo.Context, sess *session.Session, stored bool) {
	ctx := c.Request().Context()

	switch {
	case sess.Modified():
		if err := sm.store.Save(ctx, sess); err != nil {
			GetLogger(c).Error().Err(err).Msg("failed to save session")
			return
		}
	case stored:
		if err := sm.store.Touch(ctx, sess.ID); err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				GetLogger(c).Error().Err(err).Msg("failed to refresh session")
			}
			return
		}
	default:
		return
	}

	c.SetCookie(&http.Cookie{
		Name:     sm.cookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(sm.ttl.Seconds()),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}
