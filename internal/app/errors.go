package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// SetupFailed indicates the workflow could not assemble its collaborators.
	SetupFailed AppErrorType = iota
	// VerifyFailed indicates a standalone verification could not run.
	VerifyFailed
	// ArgsFailed indicates the installer arguments could not be resolved.
	ArgsFailed
	// ValidationFailed indicates invalid workflow options.
	ValidationFailed
)

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewSetupError creates a setup error.
func NewSetupError(message string, cause error) *AppError {
	return NewAppError(SetupFailed, message, cause)
}

// NewVerifyError creates a verify error.
func NewVerifyError(message string, cause error) *AppError {
	return NewAppError(VerifyFailed, message, cause)
}

// NewArgsError creates an args error.
func NewArgsError(message string, cause error) *AppError {
	return NewAppError(ArgsFailed, message, cause)
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, cause)
}
