package errs

import (
	"net/http"
)

func newHTTPError(status int, message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(status))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   status,
		Override: override,
	}
}

// NewUnauthorizedError creates a 401.
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, message, override, nil)
}

// NewForbiddenError creates a 403. Ownership checks on items use it.
func NewForbiddenError(message string, override bool) *HTTPError {
	return newHTTPError(http.StatusForbidden, message, override, nil)
}

// NewBadRequestError creates a 400 with optional custom code, field errors and action.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	e := newHTTPError(http.StatusBadRequest, message, override, code)
	e.Errors = errors
	e.Action = action
	return e
}

// NewNotFoundError creates a 404.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, override, code)
}

// NewConflictError creates a 409, used for unique constraint clashes.
func NewConflictError(message string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusConflict, message, override, code)
}

// NewTooManyRequestsError creates a 429.
func NewTooManyRequestsError(message string) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, message, true, nil)
}

// NewServiceUnavailableError creates a 503, used when an upstream identity
// provider cannot be reached.
func NewServiceUnavailableError(message string, override bool) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, message, override, nil)
}

// NewInternalServerError creates a 500 with the generic status text, so
// internal details never reach the client.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false, nil)
}

// ValidationError wraps a validation failure into a 400.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}

// NewLoginRequiredError is a 401 carrying a redirect action to the login page.
func NewLoginRequiredError(loginURL string) *HTTPError {
	return NewUnauthorizedError("Login required", true).WithAction(&Action{
		Type:    ActionTypeRedirect,
		Message: "Sign in to continue",
		Value:   loginURL,
	})
}
