package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/go-catalog/internal/config"
	"github.com/deppfellow/go-catalog/internal/middleware"
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *server.Server {
	log := zerolog.Nop()
	return &server.Server{
		Logger: &log,
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: config.DefaultObservabilityConfig(),
		},
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandle_ValidationError(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	called := false
	e.POST("/categories", Handle(NewHandler(s), func(c echo.Context, req *NewCategoryRequest) (string, error) {
		called = true
		return req.Name, nil
	}, http.StatusCreated, &NewCategoryRequest{}))

	rec := do(e, http.MethodPost, "/categories", `{"name":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"name"`)
	assert.False(t, called)
}

func TestHandle_Success(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	e.POST("/categories/:category/items", Handle(NewHandler(s), func(c echo.Context, req *NewItemRequest) (map[string]string, error) {
		return map[string]string{"category": req.Category, "name": req.Name}, nil
	}, http.StatusCreated, &NewItemRequest{}))

	rec := do(e, http.MethodPost, "/categories/Soccer/items", `{"name":"Ball"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"category":"Soccer","name":"Ball"}`, rec.Body.String())
}

func TestHandle_RequestsAreNotShared(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	template := &NewCategoryRequest{}
	e.POST("/categories", Handle(NewHandler(s), func(c echo.Context, req *NewCategoryRequest) (string, error) {
		assert.NotSame(t, template, req)
		return req.Name, nil
	}, http.StatusOK, template))

	var wg sync.WaitGroup
	for _, name := range []string{"Soccer", "Hockey", "Curling", "Chess"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			rec := do(e, http.MethodPost, "/categories", `{"name":"`+name+`"}`)
			assert.Equal(t, `"`+name+`"`+"\n", rec.Body.String())
		}(name)
	}
	wg.Wait()
	assert.Empty(t, template.Name)
}

func TestHandleNoContent(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	e.DELETE("/categories/:category/items/:item", HandleNoContent(NewHandler(s), func(c echo.Context, req *ItemParams) error {
		assert.Equal(t, "Soccer", req.Category)
		assert.Equal(t, "Ball", req.Item)
		return nil
	}, http.StatusNoContent, &ItemParams{}))

	rec := do(e, http.MethodDelete, "/categories/Soccer/items/Ball", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandleFile(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	e.GET("/catalog/download", HandleFile(NewHandler(s), func(c echo.Context, _ *NoParams) ([]byte, error) {
		return []byte(`{"categories":[]}`), nil
	}, http.StatusOK, &NoParams{}, "catalog.json", echo.MIMEApplicationJSON))

	rec := do(e, http.MethodGet, "/catalog/download", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=catalog.json", rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, `{"categories":[]}`, rec.Body.String())
}
