package events

import (
	"errors"
	"os"
	"syscall"
)

// ErrorCode names why the relay could not be reached
type ErrorCode string

const (
	ErrSocketNotFound    ErrorCode = "socket_not_found"
	ErrSocketPermission  ErrorCode = "socket_permission"
	ErrConnectionRefused ErrorCode = "connection_refused"
	ErrDaemonNotRunning  ErrorCode = "daemon_not_running"
)

const startHint = "Start the relay: bbct daemon run"

// DaemonError is a relay connection failure with a hint for the user
type DaemonError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Err     error
}

func (e *DaemonError) Error() string {
	if e.Hint == "" {
		return e.Message
	}
	return e.Message + ". " + e.Hint
}

func (e *DaemonError) Unwrap() error { return e.Err }

// dialFailures is checked in order; the first matching cause wins
var dialFailures = []struct {
	cause   error
	code    ErrorCode
	message string
	hint    string
}{
	{os.ErrNotExist, ErrSocketNotFound, "No relay socket", startHint},
	{os.ErrPermission, ErrSocketPermission, "Permission denied on the relay socket", "Check the data directory is owned by you and has mode 700"},
	{syscall.ECONNREFUSED, ErrConnectionRefused, "Relay refused the connection", "It may have crashed. " + startHint},
}

// ClassifyDaemonError explains a failed dial or request to the relay.
// Unknown causes are reported as the daemon not running. A nil err gives nil.
func ClassifyDaemonError(err error) *DaemonError {
	if err == nil {
		return nil
	}

	var de *DaemonError
	if errors.As(err, &de) {
		return de
	}

	for _, f := range dialFailures {
		if errors.Is(err, f.cause) {
			return &DaemonError{Code: f.code, Message: f.message, Hint: f.hint, Err: err}
		}
	}
	return &DaemonError{Code: ErrDaemonNotRunning, Message: "Relay not running", Hint: startHint, Err: err}
}
