package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/go-catalog/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookie = "catalog_session"

func newSessionEcho(store session.Store) (*echo.Echo, *SessionMiddleware) {
	e := echo.New()
	sm := newSessionMiddleware(store, testCookie, time.Hour, false)
	e.Use(sm.Sessions())
	return e, sm
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	return nil
}

func TestSessions_UnmodifiedSessionIsNotSaved(t *testing.T) {
	store := session.NewMemoryStore()
	e, _ := newSessionEcho(store)
	e.GET("/catalog", func(c echo.Context) error {
		assert.False(t, session.FromContext(c).IsLoggedIn())
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, sessionCookie(t, rec))
	assert.Zero(t, store.Len())
}

func TestSessions_LoginRoundTrip(t *testing.T) {
	store := session.NewMemoryStore()
	e, _ := newSessionEcho(store)
	e.POST("/login", func(c echo.Context) error {
		session.FromContext(c).Login(7)
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/whoami", func(c echo.Context) error {
		id, ok := session.FromContext(c).CurrentUserID()
		require.True(t, ok)
		assert.Equal(t, "7", GetUserID(c))
		return c.JSON(http.StatusOK, id)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.Equal(t, 1, store.Len())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7\n", rec.Body.String())
	refreshed := sessionCookie(t, rec)
	require.NotNil(t, refreshed, "an active session keeps sliding")
	assert.Equal(t, cookie.Value, refreshed.Value)
	assert.Equal(t, 3600, refreshed.MaxAge)
}

func TestSessions_ExpiredSessionIsNotRefreshed(t *testing.T) {
	store := session.NewMemoryStore()
	e, _ := newSessionEcho(store)
	e.GET("/catalog", func(c echo.Context) error {
		assert.False(t, session.FromContext(c).IsLoggedIn())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "0b8f2d4e-7c1a-4c55-9f3e-2a6d1b9e8c70"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, sessionCookie(t, rec))
	assert.Zero(t, store.Len())
}

func TestSessions_SavedWhenHandlerFails(t *testing.T) {
	store := session.NewMemoryStore()
	e, _ := newSessionEcho(store)
	e.GET("/login", func(c echo.Context) error {
		session.FromContext(c).SetState("abc")
		return echo.NewHTTPError(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)

	sess, err := store.Load(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.State)
}

func TestSessions_GarbageCookieStartsFresh(t *testing.T) {
	store := session.NewMemoryStore()
	e, _ := newSessionEcho(store)
	e.GET("/", func(c echo.Context) error {
		assert.NotEqual(t, "not-a-uuid", session.FromContext(c).ID)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRequired(t *testing.T) {
	store := session.NewMemoryStore()
	e, sm := newSessionEcho(store)
	e.GET("/categories/:category/items/new", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, sm.LoginRequired)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		NewGlobalMiddlewares(nil).GlobalErrorHandler(err, c)
	}

	t.Run("browser is redirected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/Soccer/items/new?x=1", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?next=%2Fcategories%2FSoccer%2Fitems%2Fnew%3Fx%3D1", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("json client gets 401 with action", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/categories/Soccer/items/new", nil)
		req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"type":"redirect"`)
	})

	t.Run("logged in passes", func(t *testing.T) {
		sess := session.New()
		sess.Login(1)
		require.NoError(t, store.Save(context.Background(), sess))

		req := httptest.NewRequest(http.MethodGet, "/categories/Soccer/items/new", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: sess.ID})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
