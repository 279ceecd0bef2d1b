// Package bootstrap resolves the parameters of a salt bootstrap and runs
// it: DNS, master prerequisites, download, verification and execution.
package bootstrap

import (
	"context"

	"github.com/tacogips/kickstart-salt/internal/jsondoc"
	"github.com/tacogips/kickstart-salt/internal/platform"
)

// Configuration keys read from the effective kickstart_salt_args document.
const (
	KeySavePath         = "bootstrap_salt_save_path"
	KeyExpectedHash     = "bootstrap_salt_expected_hash"
	KeyHashType         = "bootstrap_salt_hash_type"
	KeyJSONArgs         = "bootstrap_salt_json_args"
	KeyDownloadURL      = "bootstrap_salt_download_url"
	KeyMasterDropIns    = "/etc/salt/master.d/"
	KeyAutosignPatterns = "salt_master_autosign_patterns"
	KeyYumPackages      = "salt_master_prerequisite_yum_packages"
)

// Parameters is everything one bootstrap run needs. It is built once by a
// ParameterSource and not modified afterwards.
type Parameters struct {
	// Platform is the operating system being bootstrapped.
	Platform platform.Platform
	// DNSEntries are resolver lines on Linux and server addresses on
	// Windows.
	DNSEntries []string
	// SavePath is where the bootstrap script is written.
	SavePath string
	// DownloadURL serves the bootstrap script.
	DownloadURL string
	// HashType names the digest algorithm of ExpectedHash.
	HashType string
	// ExpectedHash is the hex digest the script must match.
	ExpectedHash string
	// InstallerArgs is the bootstrap_salt_json_args map.
	InstallerArgs *jsondoc.Object
	// Master holds settings only used when bootstrapping a master.
	Master MasterSettings
	// Warnings collected while resolving, for the operator.
	Warnings []string
}

// MasterSettings configures a salt master before installation.
type MasterSettings struct {
	// DropIns maps file names under /etc/salt/master.d to their content.
	DropIns *jsondoc.Object
	// AutosignPatterns are written to /etc/salt/autosign.conf. nil means
	// the file is left alone.
	AutosignPatterns []string
	// YumPackages are installed before the bootstrap runs.
	YumPackages []string
}

// ParameterSource produces the Parameters for a platform.
type ParameterSource interface {
	Resolve(ctx context.Context, p platform.Platform) (*Parameters, error)
}

// lookupPlatformString reads "<key>_<Platform>", then "<key>", then def.
func lookupPlatformString(cfg *jsondoc.Object, key string, p platform.Platform, def string) (string, error) {
	for _, k := range []string{key + "_" + p.String(), key} {
		v, ok, err := cfg.GetString(k)
		if err != nil {
			return "", NewError(ConfigMalformed, "invalid "+k, err)
		}
		if ok {
			return v, nil
		}
	}
	return def, nil
}

// resolveParameters builds Parameters from the effective configuration.
// Platform defaults are computed here, per call.
func resolveParameters(cfg *jsondoc.Object, p platform.Platform) (*Parameters, error) {
	defaults, err := p.Defaults()
	if err != nil {
		return nil, classify(err, UnsupportedPlatform, "no defaults for platform")
	}

	params := &Parameters{Platform: p}

	if params.SavePath, err = lookupPlatformString(cfg, KeySavePath, p, defaults.SavePath); err != nil {
		return nil, err
	}
	if params.DownloadURL, err = lookupPlatformString(cfg, KeyDownloadURL, p, defaults.DownloadURL); err != nil {
		return nil, err
	}
	if params.HashType, err = lookupPlatformString(cfg, KeyHashType, p, defaults.HashType); err != nil {
		return nil, err
	}

	expected, _, err := cfg.GetString(KeyExpectedHash)
	if err != nil {
		return nil, NewError(ConfigMalformed, "invalid "+KeyExpectedHash, err)
	}
	params.ExpectedHash = expected

	args, ok, err := cfg.GetObject(KeyJSONArgs)
	if err != nil {
		return nil, NewError(ConfigMalformed, "invalid "+KeyJSONArgs, err)
	}
	if !ok {
		return nil, NewError(ConfigAbsent, KeyJSONArgs+" is not set in instance or project metadata", nil)
	}
	params.InstallerArgs = args

	if params.Master.DropIns, _, err = cfg.GetObject(KeyMasterDropIns); err != nil {
		return nil, NewError(ConfigMalformed, "invalid "+KeyMasterDropIns, err)
	}
	if params.Master.AutosignPatterns, _, err = cfg.GetStrings(KeyAutosignPatterns); err != nil {
		return nil, NewError(ConfigMalformed, "invalid "+KeyAutosignPatterns, err)
	}
	if params.Master.YumPackages, _, err = cfg.GetStrings(KeyYumPackages); err != nil {
		return nil, NewError(ConfigMalformed, "invalid "+KeyYumPackages, err)
	}

	return params, nil
}
