package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/deppfellow/go-catalog/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payloads.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a rule that struct tags cannot express.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors lets Validate return several custom failures at once.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. It knows the non-standard
// "notblank" tag, which rejects whitespace-only strings.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// Struct validates v with the shared validator.
func Struct(v any) error {
	return Validator().Struct(v)
}

// BindAndValidate binds path params, query and body into payload and then
// runs payload.Validate. payload must be a pointer.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := unescapePathParams(c); err != nil {
		return err
	}

	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

// unescapePathParams decodes path params in place. Echo routes on the raw
// path whenever the request carries escapes that the decoded path cannot
// reproduce (such as %2F or %26), and then hands the params over still
// encoded. Without a raw path the params are already decoded.
func unescapePathParams(c echo.Context) error {
	if c.Request().URL.RawPath == "" {
		return nil
	}

	names := c.ParamNames()
	values := c.ParamValues()
	decoded := make([]string, len(values))
	for i, v := range values {
		d, err := url.PathUnescape(v)
		if err != nil {
			field := "path"
			if i < len(names) {
				field = names[i]
			}
			return errs.NewBadRequestError(fmt.Sprintf("invalid value for %s", field), true, nil, nil, nil)
		}
		decoded[i] = d
	}
	c.SetParamValues(decoded...)
	return nil
}

func bindErrorMessage(err error) string {
	var bindErr *echo.BindingError
	if errors.As(err, &bindErr) {
		return fmt.Sprintf("invalid value for %s", bindErr.Field)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return "Invalid request body"
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		for _, e := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: e.Field, Error: e.Message})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "request", Error: err.Error()}}
	}

	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: fieldErrorMessage(field, fe),
		})
	}

	return "Validation failed", fieldErrors
}

func fieldErrorMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", field, fe.Tag())
	}
}
