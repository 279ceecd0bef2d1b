package app

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/tacogips/kickstart-salt/internal/bootstrap"
	"github.com/tacogips/kickstart-salt/internal/config"
	"github.com/tacogips/kickstart-salt/internal/debug"
	"github.com/tacogips/kickstart-salt/internal/platform"
	"github.com/tacogips/kickstart-salt/internal/runner"
)

// BootstrapOptions contains options for the bootstrap workflow.
type BootstrapOptions struct {
	// Config is the operator configuration. nil means defaults.
	Config *config.Config
	// GOOS overrides the detected operating system.
	GOOS string
	// Root, when set, prefixes every path the bootstrap writes.
	Root string
	// DryRun downloads and verifies the script but skips DNS, master
	// prerequisites and the installer.
	DryRun bool
	// Confirm, when set, is asked before the installer runs.
	Confirm func(command []string) (bool, error)
	// Reporter receives progress messages. May be nil.
	Reporter bootstrap.Reporter
	// Output receives the installer's output. nil means os.Stdout.
	Output io.Writer
}

// Bootstrap resolves the bootstrap parameters from metadata and installs
// salt. Failures of the bootstrap itself are *bootstrap.BootstrapError.
func Bootstrap(ctx context.Context, opts BootstrapOptions) error {
	debug.DebugSection("[app] Bootstrap workflow start")
	debug.DebugValue("[app] Root", opts.Root)
	debug.DebugValue("[app] DryRun", opts.DryRun)

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	debug.DebugValue("[app] GOOS", goos)

	env, err := newEnvironment(cfg, opts.Root)
	if err != nil {
		debug.Debug("[app] Environment setup failed: %v", err)
		return err
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	run := runner.New(out)

	source := bootstrap.NewMetadataSource(env.metadata)
	orch := &bootstrap.Orchestrator{
		GOOS:     goos,
		Source:   source,
		Fs:       env.fs,
		Runner:   run,
		Fetcher:  env.fetcher,
		Reporter: opts.Reporter,
		Confirm:  opts.Confirm,
		DryRun:   opts.DryRun,
	}
	if opts.Reporter != nil {
		source.Show = showDocuments(opts.Reporter)
	}

	// Unsupported platforms are reported by the orchestrator.
	if plat, err := platform.Detect(goos); err == nil {
		if defaults, err := plat.Defaults(); err == nil {
			run.Wrapper = defaults.CommandWrapper
		}
		var warn func(string)
		if opts.Reporter != nil {
			warn = opts.Reporter.Warning
		}
		orch.DNS = dnsConfigurer(plat, cfg, env.fs, run, warn)
	}

	err = orch.Run(ctx)
	debug.Debug("[app] Bootstrap finished at stage %s", orch.Stage())
	return err
}
