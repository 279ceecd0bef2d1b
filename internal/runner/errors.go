package runner

import (
	"fmt"
	"strings"
)

// ExitError reports a command that ran but exited non-zero. Run itself
// never returns it; callers that treat a non-zero status as fatal do.
type ExitError struct {
	// Command is the argument vector that was executed.
	Command []string
	// Code is the exit status.
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", strings.Join(e.Command, " "), e.Code)
}

// NewExitError creates an ExitError.
func NewExitError(command []string, code int) *ExitError {
	return &ExitError{Command: command, Code: code}
}
