package app

import (
	"encoding/json"
	"time"

	"github.com/spf13/afero"

	"github.com/tacogips/kickstart-salt/internal/artifact"
	"github.com/tacogips/kickstart-salt/internal/bootstrap"
	"github.com/tacogips/kickstart-salt/internal/config"
	"github.com/tacogips/kickstart-salt/internal/debug"
	"github.com/tacogips/kickstart-salt/internal/jsondoc"
	"github.com/tacogips/kickstart-salt/internal/metadata"
	"github.com/tacogips/kickstart-salt/internal/platform"
	"github.com/tacogips/kickstart-salt/internal/runner"
)

// environment holds the collaborators shared by the workflows.
type environment struct {
	// fs receives every file the bootstrap writes.
	fs afero.Fs
	// metadata is the metadata server client or file store.
	metadata metadata.Getter
	// fetcher downloads the bootstrap script into fs.
	fetcher *artifact.Fetcher
}

// newEnvironment builds the filesystem, metadata getter and fetcher for
// cfg. A non-empty root confines all writes below it.
func newEnvironment(cfg *config.Config, root string) (*environment, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, NewValidationError("invalid configuration", err)
	}

	host := afero.NewOsFs()
	fsys := host
	if root != "" {
		debug.DebugValue("[app] Filesystem root", root)
		fsys = afero.NewBasePathFs(host, root)
	}

	env := &environment{fs: fsys}

	if cfg.Metadata.File != "" {
		debug.DebugValue("[app] Metadata file", cfg.Metadata.File)
		store, err := metadata.LoadFile(host, cfg.Metadata.File)
		if err != nil {
			return nil, NewSetupError("failed to load metadata file", err)
		}
		env.metadata = store
	} else {
		debug.DebugValue("[app] Metadata URL", cfg.Metadata.URL)
		client := metadata.NewClient(cfg.Metadata.URL)
		if cfg.Metadata.Timeout > 0 {
			client.HTTPClient.Timeout = time.Duration(cfg.Metadata.Timeout) * time.Second
		}
		env.metadata = client
	}

	env.fetcher = artifact.NewFetcher(fsys)
	if cfg.Download.Timeout > 0 {
		env.fetcher.HTTPClient.Timeout = time.Duration(cfg.Download.Timeout) * time.Second
	}

	return env, nil
}

// dnsConfigurer returns the resolver configurer for plat using the paths
// and adapter named in cfg.
func dnsConfigurer(plat platform.Platform, cfg *config.Config, fsys afero.Fs, run *runner.Runner, warn func(string)) platform.DNSConfigurer {
	switch plat {
	case platform.Linux:
		return &platform.ResolvConf{Fs: fsys, Path: cfg.DNS.ResolvConf}
	case platform.Windows:
		return &platform.WindowsDNS{Runner: run, InterfaceAlias: cfg.DNS.InterfaceAlias, Warn: warn}
	default:
		return nil
	}
}

// showDocuments prints configuration documents through r, indented.
func showDocuments(r bootstrap.Reporter) func(string, *jsondoc.Object) {
	return func(title string, doc *jsondoc.Object) {
		if doc == nil {
			r.Info(title + ": (not set)")
			return
		}
		data, err := json.MarshalIndent(doc, "", "    ")
		if err != nil {
			debug.Debug("[app] Failed to render %s: %v", title, err)
			return
		}
		r.Info(title + ":\n" + string(data))
	}
}
