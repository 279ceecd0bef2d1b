package artifact

import (
	"encoding/hex"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/tacogips/kickstart-salt/internal/debug"
)

// chunkSize bounds memory while hashing.
const chunkSize = 4096

// Digest streams the file at path through the named algorithm and returns
// the lowercase hex digest.
func Digest(fsys afero.Fs, path, hashType string) (string, error) {
	if path == "" {
		return "", NewMissingParameterError("file path")
	}
	if hashType == "" {
		return "", NewMissingParameterError("hash type")
	}

	algo, err := ParseAlgorithm(hashType)
	if err != nil {
		return "", err
	}
	h, err := algo.New()
	if err != nil {
		return "", err
	}

	f, err := fsys.Open(path)
	if err != nil {
		return "", &VerifyError{Type: VerifyReadFailed, Message: "failed to open " + path, Cause: err}
	}
	defer f.Close()

	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", &VerifyError{Type: VerifyReadFailed, Message: "failed to read " + path, Cause: err}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether the digest of the file at path equals expected.
// Hex digits are compared case-insensitively. A mismatch returns false
// with a nil error.
func Verify(fsys afero.Fs, path, hashType, expected string) (bool, error) {
	if expected == "" {
		return false, NewMissingParameterError("expected hash")
	}

	actual, err := Digest(fsys, path, hashType)
	if err != nil {
		return false, err
	}

	debug.DebugValue("[artifact] Computed "+hashType, actual)
	debug.DebugValue("[artifact] Expected "+hashType, expected)

	return strings.EqualFold(actual, strings.TrimSpace(expected)), nil
}
