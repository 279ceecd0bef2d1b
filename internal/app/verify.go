package app

import (
	"strings"

	"github.com/spf13/afero"

	"github.com/tacogips/kickstart-salt/internal/artifact"
	"github.com/tacogips/kickstart-salt/internal/debug"
)

// VerifyOptions contains options for the verify workflow.
type VerifyOptions struct {
	// Path is the file to check.
	Path string
	// HashType names the digest algorithm, for example "sha256".
	HashType string
	// Expected is the hex digest the file must match.
	Expected string
	// Fs is the filesystem holding Path. nil means the host filesystem.
	Fs afero.Fs
}

// VerifyResult is the outcome of a verification.
type VerifyResult struct {
	// Path is the verified file.
	Path string
	// Algorithm is the canonical digest name.
	Algorithm string
	// Actual is the computed hex digest.
	Actual string
	// Match reports whether Actual equals the expected digest.
	Match bool
}

// Verify computes the digest of a file and compares it with the
// expected value. A mismatch is not an error.
func Verify(opts VerifyOptions) (*VerifyResult, error) {
	debug.DebugSection("[app] Verify workflow start")
	debug.DebugValue("[app] Path", opts.Path)
	debug.DebugValue("[app] HashType", opts.HashType)

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	algo, err := artifact.ParseAlgorithm(opts.HashType)
	if err != nil {
		return nil, NewVerifyError("cannot verify "+opts.Path, err)
	}

	match, err := artifact.Verify(fsys, opts.Path, algo.String(), opts.Expected)
	if err != nil {
		return nil, NewVerifyError("cannot verify "+opts.Path, err)
	}

	actual, err := artifact.Digest(fsys, opts.Path, algo.String())
	if err != nil {
		return nil, NewVerifyError("cannot verify "+opts.Path, err)
	}

	return &VerifyResult{
		Path:      opts.Path,
		Algorithm: algo.String(),
		Actual:    strings.ToLower(actual),
		Match:     match,
	}, nil
}
