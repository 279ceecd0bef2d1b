package artifact

import "fmt"

// FetchErrorType represents the type of download failure.
type FetchErrorType int

const (
	// FetchNetwork indicates a transport error or a non-success response.
	FetchNetwork FetchErrorType = iota
	// FetchNotWritten indicates the destination file could not be written
	// or did not exist after the download.
	FetchNotWritten
)

// String returns the string representation of the error type.
func (t FetchErrorType) String() string {
	switch t {
	case FetchNetwork:
		return "Network"
	case FetchNotWritten:
		return "NotWritten"
	default:
		return "Unknown"
	}
}

// FetchError reports a failed download.
type FetchError struct {
	// Type is the error type classification.
	Type FetchErrorType
	// URL is the requested URL.
	URL string
	// Path is the destination path.
	Path string
	// Message is the human-readable error message.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("download [%s] of %s to %s: %s: %v", e.Type, e.URL, e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("download [%s] of %s to %s: %s", e.Type, e.URL, e.Path, e.Message)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network fetch error.
func NewNetworkError(url, path, message string, cause error) *FetchError {
	return &FetchError{Type: FetchNetwork, URL: url, Path: path, Message: message, Cause: cause}
}

// NewNotWrittenError creates a fetch error for a destination that failed to materialize.
func NewNotWrittenError(url, path, message string, cause error) *FetchError {
	return &FetchError{Type: FetchNotWritten, URL: url, Path: path, Message: message, Cause: cause}
}

// VerifyErrorType represents the type of verification failure. A digest
// mismatch is not an error; Verify reports it as false.
type VerifyErrorType int

const (
	// VerifyUnsupportedAlgorithm indicates an unknown hash algorithm name.
	VerifyUnsupportedAlgorithm VerifyErrorType = iota
	// VerifyMissingParameter indicates path, algorithm or digest was empty.
	VerifyMissingParameter
	// VerifyReadFailed indicates the file could not be read.
	VerifyReadFailed
)

// String returns the string representation of the error type.
func (t VerifyErrorType) String() string {
	switch t {
	case VerifyUnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case VerifyMissingParameter:
		return "MissingParameter"
	case VerifyReadFailed:
		return "ReadFailed"
	default:
		return "Unknown"
	}
}

// VerifyError reports why a digest could not be computed.
type VerifyError struct {
	// Type is the error type classification.
	Type VerifyErrorType
	// Message is the human-readable error message.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *VerifyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("verify [%s]: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("verify [%s]: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *VerifyError) Unwrap() error {
	return e.Cause
}

// NewUnsupportedAlgorithmError creates an error for an unknown algorithm name.
func NewUnsupportedAlgorithmError(name string) *VerifyError {
	return &VerifyError{
		Type:    VerifyUnsupportedAlgorithm,
		Message: fmt.Sprintf("%q is not a valid hash type", name),
	}
}

// NewMissingParameterError creates an error for an absent parameter.
func NewMissingParameterError(param string) *VerifyError {
	return &VerifyError{
		Type:    VerifyMissingParameter,
		Message: fmt.Sprintf("%s can't be empty", param),
	}
}
