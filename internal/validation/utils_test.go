package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/go-catalog/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type newItemRequest struct {
	Category    string `param:"category" validate:"required,notblank,max=250"`
	Name        string `json:"name" validate:"required,notblank,max=250"`
	Description string `json:"description" validate:"max=2000"`
}

func (r *newItemRequest) Validate() error {
	return Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "name", Message: "already taken"}}
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/categories/Soccer/items", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("category")
	c.SetParamValues("Soccer")
	return c
}

func TestBindAndValidate_OK(t *testing.T) {
	req := &newItemRequest{}
	err := BindAndValidate(newContext(`{"name":"Ball","description":"Round"}`), req)

	require.NoError(t, err)
	assert.Equal(t, "Soccer", req.Category)
	assert.Equal(t, "Ball", req.Name)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":"   "}`), &newItemRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "name", httpErr.Errors[0].Field)
	assert.Equal(t, "must not be blank", httpErr.Errors[0].Error)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":`), &newItemRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotEmpty(t, httpErr.Message)
	assert.Nil(t, httpErr.Errors)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{}`), &customRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "already taken"}}, httpErr.Errors)
}

func rawPathContext(rawCategory string) echo.Context {
	c := newContext(`{"name":"Ball"}`)
	c.Request().URL.RawPath = "/categories/" + rawCategory + "/items"
	c.SetParamValues(rawCategory)
	return c
}

func TestBindAndValidate_DecodesEscapedPathParams(t *testing.T) {
	req := &newItemRequest{}
	err := BindAndValidate(rawPathContext("Rock%20%26%20Roll%2FPop"), req)

	require.NoError(t, err)
	assert.Equal(t, "Rock & Roll/Pop", req.Category)
}

func TestBindAndValidate_KeepsDecodedPathParams(t *testing.T) {
	c := newContext(`{"name":"Ball"}`)
	c.SetParamValues("100%")

	req := &newItemRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, "100%", req.Category)
}

func TestBindAndValidate_BadPathEscape(t *testing.T) {
	err := BindAndValidate(rawPathContext("100%zz"), &newItemRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "invalid value for category", httpErr.Message)
}
