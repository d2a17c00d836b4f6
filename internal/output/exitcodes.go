// Package output provides structured output and error handling for the episode CLI.
package output

import "errors"

// Exit codes:
// 0 = Success
// 1 = User error (bad input, closed input, missing fields, not found)
// 2 = System error (I/O error, unreadable content directory)
// 3 = Conflict (episode file exists, session already locked)
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
	ExitConflict    = 3
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

func exitError(code int, message string, cause error) *ExitError {
	return &ExitError{Code: code, Message: message, Cause: cause}
}

// NewUserError reports bad input or a session that cannot continue (exit 1).
func NewUserError(message string) *ExitError {
	return exitError(ExitUserError, message, nil)
}

// NewUserErrorWithCause is NewUserError keeping cause for errors.Is, e.g. the
// end-of-input sentinel.
func NewUserErrorWithCause(message string, cause error) *ExitError {
	return exitError(ExitUserError, message, cause)
}

// NewSystemError reports a filesystem or environment failure (exit 2).
func NewSystemError(message string) *ExitError {
	return exitError(ExitSystemError, message, nil)
}

// NewSystemErrorWithCause is NewSystemError wrapping cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return exitError(ExitSystemError, message, cause)
}

// NewConflictError reports state another writer owns (exit 3): the episode
// file already exists or another session holds the site lock.
func NewConflictError(message string) *ExitError {
	return exitError(ExitConflict, message, nil)
}

// NewConflictErrorWithCause is NewConflictError wrapping cause.
func NewConflictErrorWithCause(message string, cause error) *ExitError {
	return exitError(ExitConflict, message, cause)
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitUserError
}
