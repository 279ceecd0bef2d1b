package config

// Default values.
const (
	DefaultMetadataURL     = "http://metadata.google.internal/computeMetadata/v1"
	DefaultMetadataTimeout = 30
	DefaultDownloadTimeout = 300
	DefaultResolvConf      = "/etc/resolv.conf"
	DefaultInterfaceAlias  = "Ethernet"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Metadata: MetadataConfig{
			URL:     DefaultMetadataURL,
			Timeout: DefaultMetadataTimeout,
		},
		Download: DownloadConfig{
			Timeout: DefaultDownloadTimeout,
		},
		DNS: DNSConfig{
			ResolvConf:     DefaultResolvConf,
			InterfaceAlias: DefaultInterfaceAlias,
		},
	}
}

// DefaultConfigPath returns where the configuration file is looked up on
// goos.
func DefaultConfigPath(goos string) string {
	if goos == "windows" {
		return `C:\ProgramData\kickstart-salt\config.json`
	}
	return "/etc/kickstart-salt/config.json"
}
