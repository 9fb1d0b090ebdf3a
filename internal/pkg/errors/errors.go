package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeInternal        = "INTERNAL_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeBadRequest      = "BAD_REQUEST"
	CodeUpstreamFailure = "UPSTREAM_FAILURE"
)

// Upstream failure reasons, reported in the "reason" detail.
const (
	ReasonSyntheticFault = "synthetic_fault"
	ReasonBadStatus      = "bad_status"
	ReasonTransport      = "transport"
	ReasonInvalidBody    = "invalid_body"
)

// ErrSyntheticFault is the cause attached to injected upstream failures.
var ErrSyntheticFault = errors.New("synthetic upstream fault injected")

// AppError represents an application error with context
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	StatusCode int               `json:"-"`
	Err        error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithError wraps an underlying error
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Internal creates an internal server error
func Internal(message string) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}

// UpstreamFailure creates a bad gateway error for a failed upstream call.
// The upstream URL and the failure reason are carried as details.
func UpstreamFailure(upstream, reason string) *AppError {
	return New(CodeUpstreamFailure, "upstream request failed", http.StatusBadGateway).
		WithDetail("upstream", upstream).
		WithDetail("reason", reason)
}

// GetAppError extracts AppError from error if present
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsUpstreamFailure checks if the error is an upstream failure
func IsUpstreamFailure(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == CodeUpstreamFailure
	}
	return false
}

// Reason returns the upstream failure reason of err, or "" if none.
func Reason(err error) string {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Details["reason"]
	}
	return ""
}
