package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/tacogips/kickstart-salt/internal/artifact"
	"github.com/tacogips/kickstart-salt/internal/debug"
	"github.com/tacogips/kickstart-salt/internal/installer"
	"github.com/tacogips/kickstart-salt/internal/platform"
)

// Reporter receives operator-facing progress messages.
type Reporter interface {
	Progress(msg string)
	Success(msg string)
	Warning(msg string)
	Info(msg string)
}

// Fetcher downloads a URL to a path and returns the path.
type Fetcher interface {
	Fetch(ctx context.Context, url, savePath string) (string, error)
}

// Orchestrator runs one bootstrap. Stages run in order and the first
// failure ends the run. Nothing already applied is rolled back: a
// resolver file written before a failed download stays in place.
type Orchestrator struct {
	// GOOS selects the platform, normally runtime.GOOS.
	GOOS string
	// Source supplies the parameters.
	Source ParameterSource
	// Fs receives every file the bootstrap writes.
	Fs afero.Fs
	// Runner executes the installer and helper commands.
	Runner platform.CommandRunner
	// Fetcher downloads the bootstrap script.
	Fetcher Fetcher
	// DNS overrides the platform's DNS configurer when set.
	DNS platform.DNSConfigurer
	// Reporter receives progress messages. May be nil.
	Reporter Reporter
	// Confirm, when set, is asked before the installer runs.
	Confirm func(command []string) (bool, error)
	// DryRun stops after printing the installer command; DNS and master
	// configuration are skipped.
	DryRun bool

	stage Stage
}

// Stage returns the last stage the orchestrator completed.
func (o *Orchestrator) Stage() Stage {
	return o.stage
}

func (o *Orchestrator) advance(s Stage) {
	debug.Debug("[bootstrap] Stage %s -> %s", o.stage, s)
	o.stage = s
}

// interrupted fails the run as Aborted once ctx is cancelled.
func (o *Orchestrator) interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return o.fail(NewError(Aborted, "bootstrap interrupted", err))
	}
	return nil
}

func (o *Orchestrator) fail(err *BootstrapError) error {
	err.Stage = o.stage
	debug.Debug("[bootstrap] Failed after %s: %v", o.stage, err)
	return err
}

// Run executes the bootstrap. Any error is a *BootstrapError. Cancelling
// ctx stops the run before the next stage, or terminates the installer
// while it runs, and fails it as Aborted.
func (o *Orchestrator) Run(ctx context.Context) error {
	debug.DebugSection("[bootstrap] Run start")
	o.stage = StageStart

	plat, err := platform.Detect(o.GOOS)
	if err != nil {
		return o.fail(classify(err, UnsupportedPlatform, "unsupported platform"))
	}
	o.advance(StagePlatformDetected)
	debug.DebugValue("[bootstrap] Platform", plat)

	params, err := o.Source.Resolve(ctx, plat)
	if err != nil {
		if ierr := o.interrupted(ctx); ierr != nil {
			return ierr
		}
		return o.fail(classify(err, ConfigAbsent, "failed to resolve bootstrap parameters"))
	}
	for _, w := range params.Warnings {
		o.reporter().Warning(w)
	}
	o.advance(StageConfigResolved)

	if err := o.interrupted(ctx); err != nil {
		return err
	}
	if !o.DryRun {
		if err := o.configureDNS(ctx, plat, params.DNSEntries); err != nil {
			return o.fail(classify(err, WriteFailed, "failed to configure DNS"))
		}
	}
	o.advance(StageDNSConfigured)

	if plat == platform.Linux && installer.IsMaster(params.InstallerArgs) {
		if err := o.interrupted(ctx); err != nil {
			return err
		}
		if o.DryRun {
			o.reporter().Info("Dry run: skipping salt master prerequisites")
		} else if err := o.configureMaster(ctx, params); err != nil {
			return o.fail(classify(err, WriteFailed, "failed to configure salt master prerequisites"))
		}
		o.advance(StageMasterConfigured)
	}

	if err := o.interrupted(ctx); err != nil {
		return err
	}
	o.reporter().Progress(fmt.Sprintf("Downloading from %s...", params.DownloadURL))
	path, err := o.Fetcher.Fetch(ctx, params.DownloadURL, params.SavePath)
	if err != nil {
		if ierr := o.interrupted(ctx); ierr != nil {
			return ierr
		}
		o.reporter().Warning(fmt.Sprintf("failed! Unable to download from %s!", params.DownloadURL))
		return o.fail(classify(err, DownloadFailed, "failed to download the bootstrap script"))
	}
	o.reporter().Success("Downloaded " + path)
	o.advance(StageArtifactFetched)

	ok, err := artifact.Verify(o.Fs, path, params.HashType, params.ExpectedHash)
	if err != nil {
		return o.fail(classify(err, ConfigAbsent, "failed to verify "+path))
	}
	if !ok {
		return o.fail(NewError(IntegrityMismatch,
			fmt.Sprintf("%s hash does not match %s; refusing to execute it", path, KeyExpectedHash), nil))
	}
	o.reporter().Success(fmt.Sprintf("%s hash matches %s.", path, KeyExpectedHash))
	o.advance(StageArtifactVerified)

	defaults, err := plat.Defaults()
	if err != nil {
		return o.fail(classify(err, UnsupportedPlatform, "no defaults for platform"))
	}
	command := append([]string{defaults.Interpreter, realPath(o.Fs, path)}, installer.Translate(params.InstallerArgs)...)
	o.advance(StageArgsTranslated)

	if o.DryRun {
		o.reporter().Info("Dry run: " + strings.Join(command, " "))
		o.advance(StageDone)
		return nil
	}

	if o.Confirm != nil {
		proceed, err := o.Confirm(command)
		if err != nil {
			return o.fail(NewError(Aborted, "confirmation failed", err))
		}
		if !proceed {
			return o.fail(NewError(Aborted, "installer execution declined", nil))
		}
	}

	if err := o.interrupted(ctx); err != nil {
		return err
	}
	o.reporter().Progress("Running " + strings.Join(command, " "))
	code, err := o.Runner.Run(ctx, command)
	if ierr := o.interrupted(ctx); ierr != nil {
		return ierr
	}
	if err != nil {
		return o.fail(NewError(SubprocessNonZero, "failed to start the bootstrap script", err))
	}
	o.advance(StageProcessExecuted)
	if code != 0 {
		return o.fail(&BootstrapError{
			Kind:    SubprocessNonZero,
			Message: fmt.Sprintf("bootstrap script exited with status %d", code),
			Code:    code,
		})
	}

	o.advance(StageDone)
	o.reporter().Success("Salt bootstrap completed")
	return nil
}

func (o *Orchestrator) configureDNS(ctx context.Context, plat platform.Platform, entries []string) error {
	dns := o.DNS
	if dns == nil {
		switch plat {
		case platform.Linux:
			dns = &platform.ResolvConf{Fs: o.Fs}
		case platform.Windows:
			dns = &platform.WindowsDNS{Runner: o.Runner, Warn: o.reporter().Warning}
		default:
			return NewError(UnsupportedPlatform, plat.String()+" has no DNS configurer", nil)
		}
	}

	o.reporter().Progress("Configuring DNS")
	return dns.Apply(ctx, entries)
}

func (o *Orchestrator) reporter() Reporter {
	if o.Reporter == nil {
		return nopReporter{}
	}
	return o.Reporter
}

// realPath maps a path inside Fs to the host path handed to the
// interpreter.
func realPath(fsys afero.Fs, p string) string {
	if bp, ok := fsys.(*afero.BasePathFs); ok {
		if hostPath, err := bp.RealPath(p); err == nil {
			return hostPath
		}
	}
	return p
}

type nopReporter struct{}

func (nopReporter) Progress(string) {}
func (nopReporter) Success(string)  {}
func (nopReporter) Warning(string)  {}
func (nopReporter) Info(string)     {}
