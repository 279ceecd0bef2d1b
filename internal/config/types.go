package config

// Config is the operator configuration of kickstart-salt. Bootstrap
// parameters come from metadata; this only controls how they are fetched
// and applied.
type Config struct {
	// Metadata configures where bootstrap parameters are read from.
	Metadata MetadataConfig `json:"metadata"`
	// Download configures the bootstrap script download.
	Download DownloadConfig `json:"download"`
	// DNS configures how resolver settings are applied.
	DNS DNSConfig `json:"dns"`
	// Output configures console output.
	Output OutputConfig `json:"output"`
}

// MetadataConfig represents metadata source settings.
type MetadataConfig struct {
	// URL is the metadata server base URL.
	URL string `json:"url"`
	// File is a JSONC metadata document used instead of the server.
	File string `json:"file,omitempty"`
	// Timeout is the request timeout in seconds.
	Timeout int `json:"timeout"`
}

// DownloadConfig represents download settings.
type DownloadConfig struct {
	// Timeout is the download timeout in seconds.
	Timeout int `json:"timeout"`
}

// DNSConfig represents resolver settings.
type DNSConfig struct {
	// ResolvConf is the Linux resolver file.
	ResolvConf string `json:"resolv_conf"`
	// InterfaceAlias is the Windows network adapter to configure.
	InterfaceAlias string `json:"interface_alias"`
}

// OutputConfig represents output and display settings.
type OutputConfig struct {
	// NoColor disables colored terminal output.
	NoColor bool `json:"no_color"`
	// Quiet suppresses non-error output.
	Quiet bool `json:"quiet"`
}
