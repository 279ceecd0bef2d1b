package app

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/kickstart-salt/internal/bootstrap"
	"github.com/tacogips/kickstart-salt/internal/config"
)

const script = "echo \"installing salt $*\"\n"

type messages struct {
	lines []string
}

func (m *messages) Progress(msg string) { m.lines = append(m.lines, "progress: "+msg) }
func (m *messages) Success(msg string)  { m.lines = append(m.lines, "success: "+msg) }
func (m *messages) Warning(msg string)  { m.lines = append(m.lines, "warning: "+msg) }
func (m *messages) Info(msg string)     { m.lines = append(m.lines, "info: "+msg) }

func (m *messages) String() string {
	return strings.Join(m.lines, "\n")
}

func scriptDigest() string {
	sum := sha256.Sum256([]byte(script))
	return hex.EncodeToString(sum[:])
}

// writeMetadata writes a metadata file serving kickstart_salt_args for a
// script hosted at url.
func writeMetadata(t *testing.T, url, expectedHash string) string {
	t.Helper()
	doc := fmt.Sprintf(`{
  // local stand-in for the GCE metadata server
  "project": {
    "project-id": "my-project",
    "attributes/dns": {"entries": ["10.0.0.2"]},
    "attributes/kickstart_salt_args": {
      "bootstrap_salt_download_url": %q,
      "bootstrap_salt_json_args": {"stable": "3006", "-P": null},
    },
  },
  "instance": {
    "attributes/dns": {"entries": ["10.0.0.1"]},
    "attributes/kickstart_salt_args": {
      "bootstrap_salt_expected_hash": %q,
      "bootstrap_salt_json_args": {"-i": "minion-1"},
    },
  },
}`, url, expectedHash)

	path := filepath.Join(t.TempDir(), "metadata.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func scriptServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(script))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBootstrapWithMetadataFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("runs the bootstrap script with sh")
	}

	srv := scriptServer(t)
	cfg := config.DefaultConfig()
	cfg.Metadata.File = writeMetadata(t, srv.URL, scriptDigest())
	root := t.TempDir()

	var out bytes.Buffer
	rep := &messages{}
	err := Bootstrap(context.Background(), BootstrapOptions{
		Config:   cfg,
		GOOS:     "linux",
		Root:     root,
		Reporter: rep,
		Output:   &out,
	})
	require.NoError(t, err)

	resolv, err := os.ReadFile(filepath.Join(root, "etc", "resolv.conf"))
	require.NoError(t, err)
	assert.Equal(t, "search c.my-project.internal google.internal\nnameserver 10.0.0.1\nnameserver 169.254.169.254\n", string(resolv))

	assert.Equal(t, "installing salt -P -i minion-1 stable 3006\n", out.String())
	assert.Contains(t, rep.String(), "success: /tmp/bootstrap-salt.sh hash matches bootstrap_salt_expected_hash.")
	assert.Contains(t, rep.String(), "info: Effective kickstart_salt_args:\n{\n    \"bootstrap_salt_download_url\"")
}

func TestBootstrapHashMismatch(t *testing.T) {
	srv := scriptServer(t)
	cfg := config.DefaultConfig()
	cfg.Metadata.File = writeMetadata(t, srv.URL, strings.Repeat("0", 64))

	var out bytes.Buffer
	err := Bootstrap(context.Background(), BootstrapOptions{
		Config: cfg,
		GOOS:   "linux",
		Root:   t.TempDir(),
		Output: &out,
	})

	var be *bootstrap.BootstrapError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, bootstrap.IntegrityMismatch, be.Kind)
	assert.Empty(t, out.String())
}

func TestBootstrapDryRun(t *testing.T) {
	srv := scriptServer(t)
	cfg := config.DefaultConfig()
	cfg.Metadata.File = writeMetadata(t, srv.URL, scriptDigest())
	root := t.TempDir()

	rep := &messages{}
	err := Bootstrap(context.Background(), BootstrapOptions{
		Config:   cfg,
		GOOS:     "linux",
		Root:     root,
		DryRun:   true,
		Reporter: rep,
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "etc", "resolv.conf"))
	assert.True(t, os.IsNotExist(err), "dry run must not configure DNS")
	_, err = os.Stat(filepath.Join(root, "tmp", "bootstrap-salt.sh"))
	assert.NoError(t, err, "dry run still downloads the script")
	assert.Contains(t, rep.String(), "info: Dry run: sh "+filepath.Join(root, "tmp", "bootstrap-salt.sh")+" -P -i minion-1 stable 3006")
}

func TestBootstrapSetupErrors(t *testing.T) {
	t.Run("missing metadata file", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Metadata.File = filepath.Join(t.TempDir(), "absent.json")

		err := Bootstrap(context.Background(), BootstrapOptions{Config: cfg, GOOS: "linux"})
		var appErr *AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, SetupFailed, appErr.Type)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Metadata.URL = "ftp://metadata"

		err := Bootstrap(context.Background(), BootstrapOptions{Config: cfg, GOOS: "linux"})
		var appErr *AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, ValidationFailed, appErr.Type)
	})

	t.Run("unsupported platform", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Metadata.File = writeMetadata(t, "http://127.0.0.1:1", "00")

		err := Bootstrap(context.Background(), BootstrapOptions{Config: cfg, GOOS: "plan9"})
		var be *bootstrap.BootstrapError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, bootstrap.UnsupportedPlatform, be.Kind)
	})
}

func TestVerify(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/tmp/bootstrap-salt.sh", []byte(script), 0644))

	result, err := Verify(VerifyOptions{
		Path:     "/tmp/bootstrap-salt.sh",
		HashType: "SHA256",
		Expected: strings.ToUpper(scriptDigest()),
		Fs:       fsys,
	})
	require.NoError(t, err)
	assert.True(t, result.Match)
	assert.Equal(t, "sha256", result.Algorithm)
	assert.Equal(t, scriptDigest(), result.Actual)

	result, err = Verify(VerifyOptions{
		Path:     "/tmp/bootstrap-salt.sh",
		HashType: "sha256",
		Expected: strings.Repeat("0", 64),
		Fs:       fsys,
	})
	require.NoError(t, err)
	assert.False(t, result.Match)

	_, err = Verify(VerifyOptions{Path: "/tmp/bootstrap-salt.sh", HashType: "sha999", Expected: "00", Fs: fsys})
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, VerifyFailed, appErr.Type)
	assert.Contains(t, err.Error(), `"sha999" is not a valid hash type`)

	_, err = Verify(VerifyOptions{Path: "/missing", HashType: "md5", Expected: "00", Fs: fsys})
	assert.Error(t, err)
}

func TestArgs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Metadata.File = writeMetadata(t, "https://bootstrap.example.com", "abc")

	result, err := Args(context.Background(), ArgsOptions{Config: cfg, GOOS: "linux"})
	require.NoError(t, err)

	assert.Equal(t, []string{"sh", "/tmp/bootstrap-salt.sh", "-P", "-i", "minion-1", "stable", "3006"}, result.Command)
	assert.Equal(t, []string{"bootstrap_salt_download_url", "bootstrap_salt_json_args", "bootstrap_salt_expected_hash"}, result.Effective.Keys())
	assert.Equal(t, 2, result.Project.Len())
	assert.Equal(t, 2, result.Instance.Len())
	assert.Equal(t, "https://bootstrap.example.com", result.Parameters.DownloadURL)
	assert.Equal(t, []string{
		"search c.my-project.internal google.internal",
		"nameserver 10.0.0.1",
		"nameserver 169.254.169.254",
	}, result.Parameters.DNSEntries)

	windows, err := Args(context.Background(), ArgsOptions{Config: cfg, GOOS: "windows"})
	require.NoError(t, err)
	assert.Equal(t, []string{"powershell", `c:\bootstrap-salt.ps1`, "-P", "-i", "minion-1", "stable", "3006"}, windows.Command)
	assert.Equal(t, []string{"10.0.0.1"}, windows.Parameters.DNSEntries)

	_, err = Args(context.Background(), ArgsOptions{Config: cfg, GOOS: "darwin"})
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ArgsFailed, appErr.Type)
}
