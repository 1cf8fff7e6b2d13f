package auth

import (
	"errors"
	"fmt"
)

// Error codes for sign-in failures
const (
	// Configuration errors
	ErrCodeConfigInvalid = "AUTH_CONFIG_INVALID"
	ErrCodeFlowBusy      = "AUTH_FLOW_BUSY"

	// Provider errors
	ErrCodeDiscoveryFailed = "AUTH_DISCOVERY_FAILED"
	ErrCodeProviderError   = "AUTH_PROVIDER_ERROR"
	ErrCodeCallbackFailed  = "AUTH_CALLBACK_FAILED"

	// Token errors
	ErrCodeExchangeFailed = "AUTH_EXCHANGE_FAILED"
	ErrCodeIDTokenInvalid = "AUTH_ID_TOKEN_INVALID"
	ErrCodeRevokeFailed   = "AUTH_REVOKE_FAILED"
)

// Error represents a sign-in failure with a code and context.
type Error struct {
	// Code is the error code (e.g., AUTH_CONFIG_INVALID)
	Code string

	// Message is a human-readable error message
	Message string

	// Context provides additional details about the error
	Context map[string]any

	// Cause is the underlying error that caused this error
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the machine-readable code. Satisfies the logging
// package's coded-error hook.
func (e *Error) ErrorCode() string {
	return e.Code
}

// NewError creates a new Error.
func NewError(code, message string, context map[string]any) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// WrapError wraps an existing error with an Error.
func WrapError(code, message string, cause error, context map[string]any) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: context,
		Cause:   cause,
	}
}

// IsCode checks whether err is an auth Error with the given code.
func IsCode(err error, code string) bool {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Code == code
	}
	return false
}
