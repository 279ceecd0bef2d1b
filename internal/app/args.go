package app

import (
	"context"
	"runtime"

	"github.com/tacogips/kickstart-salt/internal/bootstrap"
	"github.com/tacogips/kickstart-salt/internal/config"
	"github.com/tacogips/kickstart-salt/internal/debug"
	"github.com/tacogips/kickstart-salt/internal/installer"
	"github.com/tacogips/kickstart-salt/internal/jsondoc"
	"github.com/tacogips/kickstart-salt/internal/platform"
)

// ArgsOptions contains options for the args workflow.
type ArgsOptions struct {
	// Config is the operator configuration. nil means defaults.
	Config *config.Config
	// GOOS overrides the detected operating system.
	GOOS string
}

// ArgsResult is the resolved configuration without any side effect.
type ArgsResult struct {
	// Project is the project-level kickstart_salt_args, nil when unset.
	Project *jsondoc.Object
	// Instance is the instance-level kickstart_salt_args, nil when unset.
	Instance *jsondoc.Object
	// Effective is Instance merged over Project.
	Effective *jsondoc.Object
	// Parameters are the resolved bootstrap parameters.
	Parameters *bootstrap.Parameters
	// Command is the installer command line a bootstrap would execute.
	Command []string
}

// Args resolves the effective configuration and the installer command
// line without touching the host.
func Args(ctx context.Context, opts ArgsOptions) (*ArgsResult, error) {
	debug.DebugSection("[app] Args workflow start")

	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	plat, err := platform.Detect(goos)
	if err != nil {
		return nil, NewArgsError("cannot resolve installer arguments", err)
	}
	defaults, err := plat.Defaults()
	if err != nil {
		return nil, NewArgsError("cannot resolve installer arguments", err)
	}

	env, err := newEnvironment(opts.Config, "")
	if err != nil {
		return nil, err
	}
	source := bootstrap.NewMetadataSource(env.metadata)

	project, instance, effective, err := source.ConfigDocuments(ctx)
	if err != nil {
		return nil, NewArgsError("cannot read kickstart_salt_args", err)
	}

	params, err := source.Resolve(ctx, plat)
	if err != nil {
		return nil, NewArgsError("cannot resolve installer arguments", err)
	}

	command := append([]string{defaults.Interpreter, params.SavePath}, installer.Translate(params.InstallerArgs)...)
	debug.DebugValue("[app] Command", command)

	return &ArgsResult{
		Project:    project,
		Instance:   instance,
		Effective:  effective,
		Parameters: params,
		Command:    command,
	}, nil
}
