package cli

import (
	"encoding/json"
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/tacogips/kickstart-salt/internal/app"
	"github.com/tacogips/kickstart-salt/internal/jsondoc"
)

// argsOutput is the --json form of the args command.
type argsOutput struct {
	Project     *jsondoc.Object `json:"project"`
	Instance    *jsondoc.Object `json:"instance"`
	Effective   *jsondoc.Object `json:"effective"`
	DNS         []string        `json:"dns"`
	DownloadURL string          `json:"download_url"`
	SavePath    string          `json:"save_path"`
	HashType    string          `json:"hash_type"`
	Command     []string        `json:"command"`
}

func newArgsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "args",
		Short: "Show the effective configuration and installer command",
		Long: `Read kickstart_salt_args from metadata, merge instance over project
values and print the result together with the installer command line.
Nothing is downloaded, written or executed.

Examples:
  kickstart-salt args
  kickstart-salt args --json
  kickstart-salt args --metadata-file ./metadata.jsonc --platform windows`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Args(cmd.Context(), app.ArgsOptions{
				Config: opts.cfg,
				GOOS:   opts.platform,
			})
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(argsOutput{
					Project:     result.Project,
					Instance:    result.Instance,
					Effective:   result.Effective,
					DNS:         result.Parameters.DNSEntries,
					DownloadURL: result.Parameters.DownloadURL,
					SavePath:    result.Parameters.SavePath,
					HashType:    result.Parameters.HashType,
					Command:     result.Command,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal arguments: %w", err)
				}
				fmt.Fprintln(opts.stdout, string(data))
				return nil
			}

			for _, w := range result.Parameters.Warnings {
				opts.console.printWarning(w)
			}
			printDocument(opts.console, "Project kickstart_salt_args", result.Project)
			printDocument(opts.console, "Instance kickstart_salt_args", result.Instance)
			printDocument(opts.console, "Effective kickstart_salt_args", result.Effective)

			opts.console.printHeader("DNS")
			for _, line := range result.Parameters.DNSEntries {
				opts.console.printInfo(line)
			}

			opts.console.printHeader("Installer")
			opts.console.printInfo("Download: " + result.Parameters.DownloadURL)
			opts.console.printInfo("Save to:  " + result.Parameters.SavePath)
			opts.console.printInfo("Digest:   " + result.Parameters.HashType)
			opts.console.printInfo("Command:  " + shellquote.Join(result.Command...))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, FlagJSON, false, DescJSON)
	return cmd
}

func printDocument(c *console, title string, doc *jsondoc.Object) {
	c.printHeader(title)
	if doc == nil {
		c.printInfo("(not set)")
		return
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		c.printErrorMsg(fmt.Sprintf("failed to render %s: %v", title, err))
		return
	}
	c.printInfo(string(data))
}
