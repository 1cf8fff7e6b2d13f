package exitcode

import (
	"errors"
	"os"
	"strings"

	"github.com/leoconnect/leoconnect/internal/session"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates invalid or missing configuration
	ConfigError = 3

	// AuthError indicates an authentication failure
	AuthError = 4

	// NotRegistered indicates the identity was accepted but no member exists
	NotRegistered = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if errors.Is(err, session.ErrNotRegistered) {
		return NotRegistered
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "auth_config_invalid") || strings.Contains(errMsg, "config:") {
		return ConfigError
	}

	if strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "sign-in failed") {
		return AuthError
	}

	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host") ||
		strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "perform request") {
		return NetworkError
	}

	return GeneralError
}
