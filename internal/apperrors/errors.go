package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthenticated")

// ErrForbidden indicates the caller may not act on the resource, including
// resources owned by another organization.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition indicates a status change from a non-pending record.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConflict indicates a concurrent modification lost the compare-and-set.
var ErrConflict = errors.New("conflicting update")

// ErrMissingOrganization indicates an authenticated request without an organization scope.
var ErrMissingOrganization = errors.New("organization information missing")

// ErrUnavailable indicates an optional backing service is not configured.
var ErrUnavailable = errors.New("service unavailable")

// AppError carries an HTTP status code alongside a client-safe message.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError wraps ErrValidation with a client-facing message.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// Kind returns the machine-readable kind and HTTP status for err.
// Unknown errors map to "internal"/500.
func Kind(err error) (string, int) {
	switch {
	case errors.Is(err, ErrMissingOrganization):
		return "missing_organization", http.StatusBadRequest
	case errors.Is(err, ErrValidation):
		return "validation", http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return "unauthenticated", http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return "forbidden", http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return "duplicate", http.StatusConflict
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition", http.StatusConflict
	case errors.Is(err, ErrConflict):
		return "conflict", http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return "unavailable", http.StatusServiceUnavailable
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500 {
		return "validation", appErr.Code
	}
	return "internal", http.StatusInternalServerError
}
