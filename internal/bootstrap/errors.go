package bootstrap

import (
	"errors"
	"fmt"

	"github.com/tacogips/kickstart-salt/internal/artifact"
	"github.com/tacogips/kickstart-salt/internal/jsondoc"
	"github.com/tacogips/kickstart-salt/internal/metadata"
	"github.com/tacogips/kickstart-salt/internal/platform"
	"github.com/tacogips/kickstart-salt/internal/runner"
)

// Kind classifies why a bootstrap failed.
type Kind int

const (
	// TransportUnreachable means the metadata server could not be reached.
	TransportUnreachable Kind = iota + 1
	// ConfigAbsent means a required configuration key is unset in both scopes.
	ConfigAbsent
	// ConfigMalformed means configuration could not be parsed or has the wrong shape.
	ConfigMalformed
	// DownloadFailed means the bootstrap script could not be downloaded or saved.
	DownloadFailed
	// IntegrityMismatch means the downloaded script does not match the expected digest.
	IntegrityMismatch
	// SubprocessNonZero means the installer or a helper command failed.
	SubprocessNonZero
	// UnsupportedPlatform means the operating system is not Linux or Windows.
	UnsupportedPlatform
	// WriteFailed means a configuration file or directory could not be written.
	WriteFailed
	// Aborted means the operator declined to run the installer.
	Aborted
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case TransportUnreachable:
		return "TransportUnreachable"
	case ConfigAbsent:
		return "ConfigAbsent"
	case ConfigMalformed:
		return "ConfigMalformed"
	case DownloadFailed:
		return "DownloadFailed"
	case IntegrityMismatch:
		return "IntegrityMismatch"
	case SubprocessNonZero:
		return "SubprocessNonZero"
	case UnsupportedPlatform:
		return "UnsupportedPlatform"
	case WriteFailed:
		return "WriteFailed"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// BootstrapError is the single error type returned by Orchestrator.Run.
type BootstrapError struct {
	// Kind is the failure classification.
	Kind Kind
	// Stage is the last stage that completed before the failure.
	Stage Stage
	// Message is the human-readable error message.
	Message string
	// Code is the exit status of a failed subprocess, if any.
	Code int
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *BootstrapError) Error() string {
	msg := fmt.Sprintf("bootstrap failed [%s] after %s: %s", e.Kind, e.Stage, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error wrapping.
func (e *BootstrapError) Unwrap() error {
	return e.Cause
}

// ExitCode is the process exit status for this failure: the child's own
// status for a failed subprocess, 1 for everything else.
func (e *BootstrapError) ExitCode() int {
	if e.Kind == SubprocessNonZero && e.Code > 0 && e.Code < 256 {
		return e.Code
	}
	return 1
}

// NewError creates a BootstrapError.
func NewError(kind Kind, message string, cause error) *BootstrapError {
	return &BootstrapError{Kind: kind, Message: message, Cause: cause}
}

// classify wraps err as a BootstrapError, inferring the kind from the
// component error it carries. fallback is used when nothing matches.
func classify(err error, fallback Kind, message string) *BootstrapError {
	var be *BootstrapError
	if errors.As(err, &be) {
		return be
	}

	kind := fallback
	code := 0

	var (
		metaErr     *metadata.MetadataError
		parseErr    *jsondoc.ParseError
		fetchErr    *artifact.FetchError
		verifyErr   *artifact.VerifyError
		exitErr     *runner.ExitError
		platformErr *platform.UnsupportedPlatformError
	)
	switch {
	case errors.As(err, &metaErr):
		switch metaErr.Type {
		case metadata.TransportUnreachable:
			kind = TransportUnreachable
		case metadata.InvalidStore:
			kind = ConfigMalformed
		}
	case errors.As(err, &parseErr):
		kind = ConfigMalformed
	case errors.As(err, &fetchErr):
		kind = DownloadFailed
	case errors.As(err, &verifyErr):
		switch verifyErr.Type {
		case artifact.VerifyMissingParameter:
			kind = ConfigAbsent
		case artifact.VerifyUnsupportedAlgorithm:
			kind = ConfigMalformed
		case artifact.VerifyReadFailed:
			kind = DownloadFailed
		}
	case errors.As(err, &exitErr):
		kind = SubprocessNonZero
		code = exitErr.Code
	case errors.As(err, &platformErr):
		kind = UnsupportedPlatform
	}

	return &BootstrapError{Kind: kind, Message: message, Code: code, Cause: err}
}
