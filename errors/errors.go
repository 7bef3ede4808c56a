package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode
	// Title is the short envelope label, e.g. "Resource Not Found".
	Title string
	// Message is a human-readable error message.
	Message string
	// HTTPStatus is the status code the error boundary responds with.
	HTTPStatus int
	// Details contains additional context for the error.
	Details map[string]any
	// Cause is the underlying error that caused this error.
	Cause error
}

// Error returns the message. The code is left out so the envelope detail
// reads as plain text.
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError titled after its code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Title:      TitleFor(code),
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// ResourceNotFound creates the error raised when a requested resource does
// not exist.
func ResourceNotFound(message string) *AppError {
	return New(ErrCodeNotFound, message, http.StatusNotFound)
}

// ResourceFound creates the error raised when a resource already exists
// where a new one was about to be created.
func ResourceFound(message string) *AppError {
	return New(ErrCodeResourceFound, message, http.StatusBadRequest)
}

// MissingParameter creates the error raised when a required path or query
// parameter is absent.
func MissingParameter(name, kind string) *AppError {
	return New(ErrCodeMissingParameter,
		fmt.Sprintf("Parameter Missing: %s Type: %s", name, kind),
		http.StatusBadRequest).
		WithDetail("parameter", name).
		WithDetail("type", kind)
}

// UnsupportedMediaType creates the error raised when a request body has a
// content type the endpoint does not accept.
func UnsupportedMediaType(contentType string, supported []string) *AppError {
	return New(ErrCodeUnsupportedMediaType,
		fmt.Sprintf("Supported Content / Media Types are: %v", supported),
		http.StatusUnsupportedMediaType).
		WithDetail("content_type", contentType)
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Title: TitleFor(ErrCodeInternal),
		Message:    "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// Unavailable creates a new AppError for a backing store that cannot be
// reached.
func Unavailable(cause error) *AppError {
	return New(ErrCodeDatabaseError, "Database is temporarily unavailable. Please try again.",
		http.StatusServiceUnavailable).WithCause(cause)
}
