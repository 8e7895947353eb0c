package cli

import (
	"errors"
	"fmt"

	"github.com/bbct/bbct/internal/models"
	cardservice "github.com/bbct/bbct/internal/services/card"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a general error occurred.
	// Use for: storage failures, daemon errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitFailure = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: missing arguments, unparseable identifiers or flag values.
	ExitUsage = 2

	// ExitNotFound indicates a requested card was not found.
	ExitNotFound = 3

	// ExitDataErr indicates data the store refused, such as a constraint violation.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: out-of-range years, negative values, unknown conditions or positions.
	ExitValidation = 5
)

// ExitError carries the process exit code for a failed command
type ExitError struct {
	Code int
	Err  error

	// Reported is set once the error has been written for the user
	Reported bool
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// UsageError wraps a message as an ExitUsage failure
func UsageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps a command error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		return ExitNotFound
	case cardservice.IsValidationError(err):
		return ExitValidation
	case errors.Is(err, models.ErrConstraintViolation):
		return ExitDataErr
	}
	return ExitFailure
}

// ErrorCode is the machine-readable code printed in JSON error output
func ErrorCode(err error) string {
	switch ExitCode(err) {
	case ExitUsage:
		return "USAGE"
	case ExitNotFound:
		return "CARD_NOT_FOUND"
	case ExitDataErr:
		return "CONSTRAINT_VIOLATION"
	case ExitValidation:
		return "VALIDATION_ERROR"
	}
	if errors.Is(err, models.ErrStorageUnavailable) {
		return "STORAGE_UNAVAILABLE"
	}
	return "ERROR"
}
