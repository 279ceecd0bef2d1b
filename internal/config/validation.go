package config

import (
	"net/url"
	"strings"
)

// Validate checks a loaded or flag-adjusted configuration.
func Validate(config *Config) error {
	if config.Metadata.Timeout < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "metadata.timeout", "timeout cannot be negative")
	}
	if config.Download.Timeout < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "download.timeout", "timeout cannot be negative")
	}
	if config.Metadata.File == "" {
		if err := validateMetadataURL(config.Metadata.URL); err != nil {
			return err
		}
	}
	if config.DNS.ResolvConf == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "dns.resolv_conf", "path cannot be empty")
	}
	// The alias is embedded in a PowerShell command line.
	if strings.ContainsAny(config.DNS.InterfaceAlias, "\"'`$;\r\n") {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "dns.interface_alias",
			"interface alias contains characters that cannot be passed to PowerShell")
	}
	return nil
}

func validateMetadataURL(raw string) error {
	if raw == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "metadata.url", "URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &ConfigError{
			Type:    ConfigValidationFailed,
			Field:   "metadata.url",
			Message: "invalid URL",
			Cause:   err,
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "metadata.url", "URL must use http or https")
	}
	if u.Host == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "metadata.url", "URL has no host")
	}
	return nil
}
