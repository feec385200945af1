package errors

import (
	"errors"
	"net/http"
)

// Standard error classes surfaced by the platform
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("scheduling conflict")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInternal      = errors.New("internal server error")
)

// AppError is a structured application error carrying the HTTP status it
// should surface as, plus optional context for logging.
type AppError struct {
	Err        error
	StatusCode int
	Message    string
	Context    map[string]interface{}
}

// Error returns the error message
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error class
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext attaches additional context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates an AppError with the given class, message and status code
func New(err error, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewValidationError creates a 400 validation error
func NewValidationError(message string) *AppError {
	return New(ErrValidation, message, http.StatusBadRequest)
}

// NewNotFoundError creates a 404 not-found error
func NewNotFoundError(message string) *AppError {
	return New(ErrNotFound, message, http.StatusNotFound)
}

// NewConflictError creates a 409 conflict error
func NewConflictError(message string) *AppError {
	return New(ErrConflict, message, http.StatusConflict)
}

// NewInvalidStatusError creates a 400 invalid-status error
func NewInvalidStatusError(message string) *AppError {
	return New(ErrInvalidStatus, message, http.StatusBadRequest)
}

// NewInternalError creates a 500 internal error
func NewInternalError(message string) *AppError {
	return New(ErrInternal, message, http.StatusInternalServerError)
}

// StatusCode returns the HTTP status for err, defaulting to 500 for
// unclassified errors.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
