package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/kickstart-salt/internal/app"
	"github.com/tacogips/kickstart-salt/internal/bootstrap"
)

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	var (
		hashType string
		expected string
	)

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Check a file against an expected digest",
		Long: `Compute the digest of a file and compare it with an expected value,
the same check the bootstrap applies to the downloaded script.

Supported hash types: md5, sha1, sha224, sha256, sha384, sha512,
sha3_224, sha3_256, sha3_384, sha3_512, blake2b, blake2s, blake3.

Examples:
  kickstart-salt verify /tmp/bootstrap-salt.sh --expected 3b0c...
  kickstart-salt verify bootstrap-salt.ps1 --hash-type md5 --expected 8f1a...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Verify(app.VerifyOptions{
				Path:     args[0],
				HashType: hashType,
				Expected: expected,
			})
			if err != nil {
				return err
			}

			opts.console.printInfo(fmt.Sprintf("%s  %s", result.Actual, result.Path))
			if !result.Match {
				return bootstrap.NewError(bootstrap.IntegrityMismatch,
					fmt.Sprintf("%s %s does not match the expected digest", result.Path, result.Algorithm), nil)
			}
			opts.console.printSuccess(fmt.Sprintf("%s %s matches", result.Path, result.Algorithm))
			return nil
		},
	}

	cmd.Flags().StringVar(&hashType, FlagHashType, "sha256", DescHashType)
	cmd.Flags().StringVar(&expected, FlagExpected, "", DescExpected)
	_ = cmd.MarkFlagRequired(FlagExpected)

	return cmd
}
