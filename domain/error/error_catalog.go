package error

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for different categories. The prefix selects the HTTP status.
const (
	// Authorization Errors (1xxx)
	ErrCodeUnauthorized        ErrorCode = "AUTH_1001"
	ErrCodeForbidden           ErrorCode = "AUTH_1002"
	ErrCodeSearchNotAuthorized ErrorCode = "AUTH_1010"

	// Validation Errors (2xxx)
	ErrCodeInvalidAuditorName ErrorCode = "VALID_2001"
	ErrCodeInvalidAuditorID   ErrorCode = "VALID_2002"
	ErrCodeInvalidRequest     ErrorCode = "VALID_2003"

	// Not Found Errors (3xxx)
	ErrCodeAuditorNotFound ErrorCode = "NOTFOUND_3001"

	// Rate Limiting Errors (4xxx)
	ErrCodeRateLimitExceeded ErrorCode = "RATE_4001"

	// Persistence Errors (5xxx)
	ErrCodePersistence ErrorCode = "DB_5001"

	// Server Errors (6xxx)
	ErrCodeInternalServerError ErrorCode = "SERVER_6001"
	ErrCodeSearchUnavailable   ErrorCode = "SERVER_6002"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// Authorization errors

func ErrUnauthorized(details string) *AppError {
	return NewAppError(ErrCodeUnauthorized, "Authentication required", details, nil)
}

func ErrForbidden(details string) *AppError {
	return NewAppError(ErrCodeForbidden, "Internal operator access required", details, nil)
}

// ErrSearchNotAuthorized is the only error an external caller sees for a
// rejected signature. It deliberately carries no details.
func ErrSearchNotAuthorized() *AppError {
	return NewAppError(ErrCodeSearchNotAuthorized, "Search not authorized", "", nil)
}

// Validation errors

func ErrInvalidAuditorName(details string) *AppError {
	return NewAppError(ErrCodeInvalidAuditorName, "Auditor name required", details, nil)
}

func ErrInvalidAuditorID(raw string) *AppError {
	return NewAppError(ErrCodeInvalidAuditorID, "Invalid auditor ID", fmt.Sprintf("Auditor ID: %s", raw), nil)
}

func ErrInvalidRequest(details string) *AppError {
	return NewAppError(ErrCodeInvalidRequest, "Invalid request", details, nil)
}

// Not found errors

func ErrAuditorNotFound(auditorID int64) *AppError {
	return NewAppError(ErrCodeAuditorNotFound, "Auditor not found", fmt.Sprintf("Auditor ID: %d", auditorID), nil)
}

// Rate limiting errors

func ErrRateLimitExceeded(window string) *AppError {
	return NewAppError(ErrCodeRateLimitExceeded, "Too many requests", fmt.Sprintf("Window: %s", window), nil)
}

// Persistence errors

func ErrPersistence(operation string, cause error) *AppError {
	return NewAppError(ErrCodePersistence, "Storage unavailable", fmt.Sprintf("Operation: %s", operation), cause)
}

// Server errors

func ErrInternalServerError(details string, cause error) *AppError {
	return NewAppError(ErrCodeInternalServerError, "Internal server error", details, cause)
}

func ErrSearchUnavailable(cause error) *AppError {
	return NewAppError(ErrCodeSearchUnavailable, "Search temporarily unavailable", "", cause)
}

// GetHTTPStatusCode maps an error to the status code of its family.
func GetHTTPStatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	code := string(appErr.Code)
	switch {
	case appErr.Code == ErrCodeForbidden || appErr.Code == ErrCodeSearchNotAuthorized:
		return http.StatusForbidden
	case strings.HasPrefix(code, "AUTH_"):
		return http.StatusUnauthorized
	case appErr.Code == ErrCodeInvalidAuditorName:
		return http.StatusUnprocessableEntity
	case strings.HasPrefix(code, "VALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "NOTFOUND_"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "RATE_"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(code, "DB_"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error response structure for API responses
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
	TraceID string    `json:"trace_id,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *AppError, traceID string) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
		TraceID: traceID,
	}
}
