package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound            = New(ErrCodeNotFound, "resource not found")
	ErrValidation          = New(ErrCodeValidation, "validation error")
	ErrInvalidOperation    = New(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied    = New(ErrCodePermissionDenied, "permission denied")
	ErrHTTPClient          = New(ErrCodeHTTPClient, "http client error")
	ErrSystem              = New(ErrCodeSystemError, "system error")
	ErrNoDataProvided      = New(ErrCodeNoDataProvided, "no subscription data provided")
	ErrUnsupportedInterval = New(ErrCodeUnsupportedInterval, "unsupported billing interval")
	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:          http.StatusInternalServerError,
		ErrNotFound:            http.StatusNotFound,
		ErrValidation:          http.StatusBadRequest,
		ErrInvalidOperation:    http.StatusBadRequest,
		ErrPermissionDenied:    http.StatusForbidden,
		ErrSystem:              http.StatusInternalServerError,
		ErrNoDataProvided:      http.StatusUnprocessableEntity,
		ErrUnsupportedInterval: http.StatusUnprocessableEntity,
	}
)

const (
	ErrCodeHTTPClient          = "http_client_error"
	ErrCodeSystemError         = "system_error"
	ErrCodeNotFound            = "not_found"
	ErrCodeValidation          = "validation_error"
	ErrCodeInvalidOperation    = "invalid_operation"
	ErrCodePermissionDenied    = "permission_denied"
	ErrCodeNoDataProvided      = "no_data_provided"
	ErrCodeUnsupportedInterval = "unsupported_interval"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func New(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsNoDataProvided checks if an error was raised for an empty snapshot
func IsNoDataProvided(err error) bool {
	return errors.Is(err, ErrNoDataProvided)
}

// IsUnsupportedInterval checks if an error was raised for an unknown billing interval
func IsUnsupportedInterval(err error) bool {
	return errors.Is(err, ErrUnsupportedInterval)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
