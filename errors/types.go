package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Input validation errors
	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeUnknownCommand ErrorCode = "UNKNOWN_COMMAND"

	// Session errors
	ErrCodeNoRepositorySelected ErrorCode = "NO_REPOSITORY_SELECTED"
	ErrCodeStateCorrupt         ErrorCode = "STATE_CORRUPT"

	// Remote repository errors
	ErrCodeRemoteNotFound         ErrorCode = "REMOTE_NOT_FOUND"
	ErrCodeRemoteConflict         ErrorCode = "REMOTE_CONFLICT"
	ErrCodeRemotePermissionDenied ErrorCode = "REMOTE_PERMISSION_DENIED"
	ErrCodeRemoteAlreadyExists    ErrorCode = "REMOTE_ALREADY_EXISTS"
	ErrCodeRemoteRateLimited      ErrorCode = "REMOTE_RATE_LIMITED"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// General errors
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// ScribeError represents a structured error with context
type ScribeError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *ScribeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ScribeError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *ScribeError) WithDetail(key string, value interface{}) *ScribeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *ScribeError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new ScribeError
func New(code ErrorCode, message string) *ScribeError {
	return &ScribeError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new ScribeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ScribeError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a ScribeError
func Wrap(err error, code ErrorCode, message string) *ScribeError {
	return &ScribeError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ScribeError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Is checks if an error is a specific ScribeError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	scribeErr, ok := err.(*ScribeError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return scribeErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	scribeErr, ok := err.(*ScribeError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return scribeErr.Code
}
