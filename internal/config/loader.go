package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"

	"github.com/tacogips/kickstart-salt/internal/debug"
)

// Loader defines the interface for loading configuration files.
type Loader interface {
	// Load loads configuration from the specified file path.
	Load(path string) (*Config, error)
	// LoadOrDefault loads configuration or returns defaults if file doesn't exist.
	LoadOrDefault(path string) (*Config, error)
	// Validate validates the configuration.
	Validate(config *Config) error
}

// FileLoader loads JSONC configuration files. Comments and trailing
// commas are allowed.
type FileLoader struct {
	Fs afero.Fs
}

// NewLoader creates a FileLoader reading from fsys.
func NewLoader(fsys afero.Fs) Loader {
	return &FileLoader{Fs: fsys}
}

// Load loads configuration from the specified file path. Unset fields
// take their defaults.
func (l *FileLoader) Load(path string) (*Config, error) {
	data, err := afero.ReadFile(l.Fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "configuration file not found", err)
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read configuration file", err)
	}

	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "invalid configuration", err)
	}

	mergeConfig(&cfg, DefaultConfig())
	debug.Debug("[config] Loaded %s", path)
	return &cfg, nil
}

// LoadOrDefault loads configuration or returns defaults if file doesn't exist.
func (l *FileLoader) LoadOrDefault(path string) (*Config, error) {
	cfg, err := l.Load(path)
	if err != nil {
		if cfgErr, ok := err.(*ConfigError); ok && cfgErr.Type == ConfigNotFound {
			debug.Debug("[config] %s not found, using defaults", path)
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func (l *FileLoader) Validate(config *Config) error {
	return Validate(config)
}

// mergeConfig fills zero fields of cfg from defaults.
func mergeConfig(cfg, defaults *Config) {
	if cfg.Metadata.URL == "" {
		cfg.Metadata.URL = defaults.Metadata.URL
	}
	if cfg.Metadata.Timeout == 0 {
		cfg.Metadata.Timeout = defaults.Metadata.Timeout
	}

	if cfg.Download.Timeout == 0 {
		cfg.Download.Timeout = defaults.Download.Timeout
	}

	if cfg.DNS.ResolvConf == "" {
		cfg.DNS.ResolvConf = defaults.DNS.ResolvConf
	}
	if cfg.DNS.InterfaceAlias == "" {
		cfg.DNS.InterfaceAlias = defaults.DNS.InterfaceAlias
	}
}
