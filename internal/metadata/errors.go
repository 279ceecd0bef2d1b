package metadata

import "fmt"

// MetadataErrorType represents the type of metadata error.
type MetadataErrorType int

const (
	// TransportUnreachable indicates the metadata server could not be
	// contacted at all, which means the host is not a GCE instance.
	TransportUnreachable MetadataErrorType = iota
	// RequestFailed indicates the server answered but the response could
	// not be read.
	RequestFailed
	// InvalidStore indicates a metadata file could not be loaded.
	InvalidStore
)

// String returns the string representation of the error type.
func (t MetadataErrorType) String() string {
	switch t {
	case TransportUnreachable:
		return "TransportUnreachable"
	case RequestFailed:
		return "RequestFailed"
	case InvalidStore:
		return "InvalidStore"
	default:
		return "Unknown"
	}
}

// MetadataError represents a failure to read metadata.
type MetadataError struct {
	// Type is the error type classification.
	Type MetadataErrorType
	// Source is the URL or file that was read.
	Source string
	// Message is the human-readable error message.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *MetadataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("metadata error [%s] for '%s': %s: %v", e.Type, e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("metadata error [%s] for '%s': %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *MetadataError) Unwrap() error {
	return e.Cause
}

// NewUnreachableError creates a transport error.
func NewUnreachableError(source string, cause error) *MetadataError {
	return &MetadataError{
		Type:    TransportUnreachable,
		Source:  source,
		Message: "metadata server unreachable; this is likely not a GCE instance",
		Cause:   cause,
	}
}
