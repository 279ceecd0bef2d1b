package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/tacogips/kickstart-salt/internal/debug"
	"github.com/tacogips/kickstart-salt/internal/jsondoc"
	"github.com/tacogips/kickstart-salt/internal/runner"
)

// Paths written when bootstrapping a master.
const (
	SSHDir          = "/root/.ssh"
	SaltConfigDir   = "/etc/salt"
	MasterDropInDir = "/etc/salt/master.d"
	AutosignPath    = "/etc/salt/autosign.conf"
)

// configureMaster prepares a Linux host to become a salt master.
func (o *Orchestrator) configureMaster(ctx context.Context, params *Parameters) error {
	debug.DebugSection("[bootstrap] Master prerequisites")

	if err := o.Fs.MkdirAll(SSHDir, 0700); err != nil {
		return NewError(WriteFailed, "failed to create "+SSHDir, err)
	}
	if err := o.Fs.MkdirAll(MasterDropInDir, 0755); err != nil {
		return NewError(WriteFailed, "failed to create "+MasterDropInDir, err)
	}

	if err := writeDropIns(o.Fs, params.Master.DropIns); err != nil {
		return err
	}
	if err := writeAutosign(o.Fs, params.Master.AutosignPatterns); err != nil {
		return err
	}
	return o.installYumPackages(ctx, params.Master.YumPackages)
}

// writeDropIns writes one YAML file per entry of dropIns into
// MasterDropInDir.
func writeDropIns(fsys afero.Fs, dropIns *jsondoc.Object) error {
	for _, name := range dropIns.Keys() {
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return NewError(ConfigMalformed, fmt.Sprintf("invalid master.d file name %q", name), nil)
		}

		content, _ := dropIns.Get(name)
		data, err := marshalYAML(content)
		if err != nil {
			return NewError(ConfigMalformed, "failed to render master.d/"+name, err)
		}

		target := path.Join(MasterDropInDir, name)
		if err := afero.WriteFile(fsys, target, data, 0644); err != nil {
			return NewError(WriteFailed, "failed to write "+target, err)
		}
		debug.Debug("[bootstrap] Wrote %s (%d bytes)", target, len(data))
	}
	return nil
}

// marshalYAML renders a decoded JSON value as block-style YAML with
// mapping keys sorted.
func marshalYAML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(jsondoc.ToNative(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAutosign writes one pattern per line to AutosignPath. nil patterns
// leave the file untouched.
func writeAutosign(fsys afero.Fs, patterns []string) error {
	if patterns == nil {
		return nil
	}
	if err := fsys.MkdirAll(SaltConfigDir, 0755); err != nil {
		return NewError(WriteFailed, "failed to create "+SaltConfigDir, err)
	}

	var sb strings.Builder
	for _, p := range patterns {
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
	if err := afero.WriteFile(fsys, AutosignPath, []byte(sb.String()), 0644); err != nil {
		return NewError(WriteFailed, "failed to write "+AutosignPath, err)
	}
	debug.Debug("[bootstrap] Wrote %d autosign patterns", len(patterns))
	return nil
}

// YumInstallCommand builds the package installation command.
func YumInstallCommand(packages []string) []string {
	cmd := []string{"sudo", "yum", "install"}
	cmd = append(cmd, packages...)
	return append(cmd, "-y")
}

func (o *Orchestrator) installYumPackages(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}

	cmd := YumInstallCommand(packages)
	o.reporter().Progress("Installing master prerequisites: " + strings.Join(packages, " "))
	code, err := o.Runner.Run(ctx, cmd)
	if err != nil {
		return NewError(SubprocessNonZero, "failed to run yum", err)
	}
	if code != 0 {
		return classify(runner.NewExitError(cmd, code), SubprocessNonZero, "yum install failed")
	}
	return nil
}
