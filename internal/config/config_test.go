package config

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "http://metadata.google.internal/computeMetadata/v1", cfg.Metadata.URL)
	assert.Equal(t, 30, cfg.Metadata.Timeout)
	assert.Equal(t, 300, cfg.Download.Timeout)
	assert.Equal(t, "/etc/resolv.conf", cfg.DNS.ResolvConf)
	assert.Equal(t, "Ethernet", cfg.DNS.InterfaceAlias)
	assert.False(t, cfg.Output.NoColor)
	assert.False(t, cfg.Output.Quiet)
	assert.NoError(t, Validate(cfg), "default config should pass validation")
}

func TestDefaultConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/kickstart-salt/config.json", DefaultConfigPath("linux"))
	assert.Equal(t, `C:\ProgramData\kickstart-salt\config.json`, DefaultConfigPath("windows"))
}

func TestLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	loader := NewLoader(fsys)

	t.Run("JSONC with partial fields", func(t *testing.T) {
		data := `{
  // use a local metadata emulator
  "metadata": {"url": "http://127.0.0.1:8080/computeMetadata/v1",},
  "dns": {"interface_alias": "Ethernet 2"},
}`
		require.NoError(t, afero.WriteFile(fsys, "/etc/kickstart-salt/config.json", []byte(data), 0644))

		cfg, err := loader.Load("/etc/kickstart-salt/config.json")
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8080/computeMetadata/v1", cfg.Metadata.URL)
		assert.Equal(t, DefaultMetadataTimeout, cfg.Metadata.Timeout)
		assert.Equal(t, "Ethernet 2", cfg.DNS.InterfaceAlias)
		assert.Equal(t, DefaultResolvConf, cfg.DNS.ResolvConf)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load("/nonexistent/config.json")
		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr), "got %v", err)
		assert.Equal(t, ConfigNotFound, cfgErr.Type)
	})

	t.Run("unknown field", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fsys, "/unknown.json", []byte(`{"metadata": {"uri": "x"}}`), 0644))
		_, err := loader.Load("/unknown.json")
		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr), "got %v", err)
		assert.Equal(t, ConfigInvalid, cfgErr.Type)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fsys, "/broken.json", []byte(`{"metadata": `), 0644))
		_, err := loader.Load("/broken.json")
		assert.Error(t, err)
	})
}

func TestLoadOrDefault(t *testing.T) {
	fsys := afero.NewMemMapFs()
	loader := NewLoader(fsys)

	cfg, err := loader.LoadOrDefault("/nonexistent/config.json")
	require.NoError(t, err, "a missing file falls back to defaults")
	assert.Equal(t, DefaultDownloadTimeout, cfg.Download.Timeout)

	require.NoError(t, afero.WriteFile(fsys, "/config.json", []byte(`{"download": {"timeout": 60}}`), 0644))
	cfg, err = loader.LoadOrDefault("/config.json")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Download.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "negative metadata timeout", modify: func(c *Config) { c.Metadata.Timeout = -1 }, field: "metadata.timeout"},
		{name: "negative download timeout", modify: func(c *Config) { c.Download.Timeout = -1 }, field: "download.timeout"},
		{name: "empty URL", modify: func(c *Config) { c.Metadata.URL = "" }, field: "metadata.url"},
		{name: "bad scheme", modify: func(c *Config) { c.Metadata.URL = "ftp://metadata" }, field: "metadata.url"},
		{name: "no host", modify: func(c *Config) { c.Metadata.URL = "http:///v1" }, field: "metadata.url"},
		{
			name:   "file replaces URL",
			modify: func(c *Config) { c.Metadata.URL = ""; c.Metadata.File = "/tmp/metadata.json" },
		},
		{name: "empty resolv.conf", modify: func(c *Config) { c.DNS.ResolvConf = "" }, field: "dns.resolv_conf"},
		{name: "quoted alias", modify: func(c *Config) { c.DNS.InterfaceAlias = `Eth"; Remove-Item` }, field: "dns.interface_alias"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Equal(t, ConfigValidationFailed, cfgErr.Type)
		})
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigErrorWithField(ConfigValidationFailed, "/etc/kickstart-salt/config.json", "metadata.url", "URL cannot be empty")
	assert.Equal(t, "configuration error in /etc/kickstart-salt/config.json [field: metadata.url]: URL cannot be empty", err.Error())

	cause := errors.New("boom")
	wrapped := NewConfigErrorWithCause(ConfigInvalid, "", "invalid configuration", cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "configuration error: invalid configuration: boom", wrapped.Error())
}
