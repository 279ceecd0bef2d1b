// Package cli implements the kickstart-salt command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tacogips/kickstart-salt/internal/app"
	"github.com/tacogips/kickstart-salt/internal/bootstrap"
	"github.com/tacogips/kickstart-salt/internal/config"
	"github.com/tacogips/kickstart-salt/internal/debug"
)

// rootOptions holds the parsed flags and the state built from them.
type rootOptions struct {
	debug        bool
	noColor      bool
	quiet        bool
	configPath   string
	metadataURL  string
	metadataFile string
	platform     string
	root         string
	dryRun       bool
	confirm      bool

	stdout  io.Writer
	stderr  io.Writer
	cfg     *config.Config
	console *console
}

// newRootCmd builds the command tree writing to stdout and stderr.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *rootOptions) {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "kickstart-salt",
		Short: "Bootstrap a salt minion or master from GCE metadata",
		Long: `kickstart-salt installs salt on a freshly booted GCE instance.

It reads the "dns" and "kickstart_salt_args" attributes from instance and
project metadata (instance values win), then:
  1. Points the resolver at the configured DNS servers
  2. Prepares /etc/salt when the -M (master) flag is requested
  3. Downloads the salt bootstrap script and checks its digest
  4. Runs the script with arguments from bootstrap_salt_json_args

Examples:
  kickstart-salt
  kickstart-salt --dry-run
  kickstart-salt --metadata-file ./metadata.jsonc --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd, opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addGlobalFlags(cmd.PersistentFlags(), opts)
	addBootstrapFlags(cmd.Flags(), opts)

	cmd.AddCommand(newVerifyCmd(opts))
	cmd.AddCommand(newArgsCmd(opts))
	cmd.AddCommand(newVersionCmd(opts))

	return cmd, opts
}

// setup applies logging flags and loads the configuration.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	debug.SetDebug(o.debug)
	o.console = newConsole(o.stdout, o.stderr, o.noColor, o.quiet)
	debug.SetNoColor(!o.console.color)

	loader := config.NewLoader(afero.NewOsFs())
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = loader.Load(o.configPath)
	} else {
		cfg, err = loader.LoadOrDefault(config.DefaultConfigPath(runtime.GOOS))
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed(FlagMetadataURL) {
		cfg.Metadata.URL = o.metadataURL
	}
	if flags.Changed(FlagMetadataFile) {
		cfg.Metadata.File = o.metadataFile
	}
	if err := loader.Validate(cfg); err != nil {
		return err
	}

	if cfg.Output.NoColor || cfg.Output.Quiet {
		o.console = newConsole(o.stdout, o.stderr, o.noColor || cfg.Output.NoColor, o.quiet || cfg.Output.Quiet)
		debug.SetNoColor(!o.console.color)
	}
	o.cfg = cfg
	return nil
}

func runBootstrap(cmd *cobra.Command, opts *rootOptions) error {
	var confirm func([]string) (bool, error)
	if opts.confirm {
		confirm = confirmInstaller
	}
	if opts.dryRun {
		opts.console.printWarning("Dry run: DNS, master prerequisites and the installer are skipped")
	}

	return app.Bootstrap(cmd.Context(), app.BootstrapOptions{
		Config:   opts.cfg,
		GOOS:     opts.platform,
		Root:     opts.root,
		DryRun:   opts.dryRun,
		Confirm:  confirm,
		Reporter: opts.console,
		Output:   opts.stdout,
	})
}

// Execute runs the command line of the process and exits with its status.
// This is the only place kickstart-salt terminates the process.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes args and returns the process exit status: 0 on success,
// the installer's own status when it fails, 1 for any other failure.
func Run(args []string, stdout, stderr io.Writer) int {
	// The first SIGINT or SIGTERM cancels the run and terminates the
	// installer; a second one gets the default behavior.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	cmd, opts := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	out := opts.console
	if out == nil {
		out = newConsole(stdout, stderr, opts.noColor, opts.quiet)
	}
	out.printError(err)
	return exitCode(err)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var be *bootstrap.BootstrapError
	if errors.As(err, &be) {
		return be.ExitCode()
	}
	return 1
}
