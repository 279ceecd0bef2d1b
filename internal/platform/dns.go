package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/tacogips/kickstart-salt/internal/debug"
	"github.com/tacogips/kickstart-salt/internal/runner"
)

// ResolvConfPath is the Linux resolver configuration file.
const ResolvConfPath = "/etc/resolv.conf"

// windowsMaxDNSServers is how many servers Set-DnsClientServerAddress is
// given; Windows only uses the first two.
const windowsMaxDNSServers = 2

// CommandRunner executes a command and returns its exit status.
type CommandRunner interface {
	Run(ctx context.Context, command []string) (int, error)
}

// DNSConfigurer points the operating system resolver at entries.
type DNSConfigurer interface {
	Apply(ctx context.Context, entries []string) error
}

// ResolvConf writes resolver lines to a file, one per line, replacing its
// previous content. Entries are complete lines such as "nameserver 10.0.0.1".
type ResolvConf struct {
	Fs   afero.Fs
	Path string
}

// Apply implements DNSConfigurer.
func (r *ResolvConf) Apply(_ context.Context, entries []string) error {
	path := r.Path
	if path == "" {
		path = ResolvConfPath
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}

	if err := r.Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(r.Fs, path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	debug.Debug("[platform] Wrote %d resolver lines to %s", len(entries), path)
	return nil
}

// WindowsDNS sets the DNS servers of a network interface with PowerShell.
type WindowsDNS struct {
	Runner CommandRunner
	// InterfaceAlias is the adapter to configure, "Ethernet" by default.
	InterfaceAlias string
	// Warn receives operator warnings. May be nil.
	Warn func(msg string)
}

// Apply implements DNSConfigurer. Only the first two entries are used.
func (w *WindowsDNS) Apply(ctx context.Context, entries []string) error {
	if len(entries) == 0 {
		w.warn("dns entries not provided; leaving DNS servers unchanged")
		return nil
	}
	if len(entries) > windowsMaxDNSServers {
		w.warn(fmt.Sprintf("dns entries has %d entries; Windows will only use the first %d",
			len(entries), windowsMaxDNSServers))
		entries = entries[:windowsMaxDNSServers]
	}

	cmd := WindowsDNSCommand(w.InterfaceAlias, entries)
	code, err := w.Runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if code != 0 {
		return runner.NewExitError(cmd, code)
	}
	return nil
}

func (w *WindowsDNS) warn(msg string) {
	if w.Warn != nil {
		w.Warn(msg)
	}
}

// WindowsDNSCommand builds the Set-DnsClientServerAddress invocation.
func WindowsDNSCommand(alias string, servers []string) []string {
	if alias == "" {
		alias = "Ethernet"
	}
	quoted := make([]string, len(servers))
	for i, s := range servers {
		quoted[i] = "'" + s + "'"
	}
	return []string{
		"powershell", "Set-DnsClientServerAddress",
		"-InterfaceAlias", `"` + alias + `"`,
		"-serverAddresses", "@(" + strings.Join(quoted, ", ") + ")",
	}
}
