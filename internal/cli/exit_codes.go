package cli

import "fmt"

// Exit codes for the specgate CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitValidationFailed indicates documents failed validation
	ExitValidationFailed = 1

	// ExitGateViolation indicates a blocked transition or unearned status
	ExitGateViolation = 2

	// ExitStale indicates generated artifacts are out of sync
	ExitStale = 3

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 4

	// ExitIOError indicates the workspace could not be read or written
	ExitIOError = 5
)

// exitError is a custom error type that carries an exit code.
type exitError struct {
	code    int
	message string
}

func (e *exitError) Error() string {
	if e.message != "" {
		return e.message
	}
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// NewExitErrorf creates an exit error carrying a message for the user.
func NewExitErrorf(code int, format string, args ...any) error {
	return &exitError{code: code, message: fmt.Sprintf(format, args...)}
}

// UserMessage returns the message to show the user, or "" for bare exit
// errors whose findings were already printed.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*exitError); ok {
		return e.message
	}
	return err.Error()
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if e, ok := err.(*exitError); ok {
		return e.code
	}
	// Anything else bubbled up from cobra is an argument problem; command
	// implementations always wrap their failures in exit errors.
	return ExitInvalidArguments
}
