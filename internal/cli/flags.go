package cli

import (
	"github.com/spf13/pflag"
)

// Common flag names and descriptions
const (
	// Flag names
	FlagDebug        = "debug"
	FlagNoColor      = "no-color"
	FlagQuiet        = "quiet"
	FlagConfig       = "config"
	FlagMetadataURL  = "metadata-url"
	FlagMetadataFile = "metadata-file"
	FlagPlatform     = "platform"
	FlagRoot         = "root"
	FlagDryRun       = "dry-run"
	FlagConfirm      = "confirm"
	FlagHashType     = "hash-type"
	FlagExpected     = "expected"
	FlagJSON         = "json"

	// Flag descriptions
	DescDebug        = "Enable debug logging"
	DescNoColor      = "Disable colored output"
	DescQuiet        = "Suppress non-error output"
	DescConfig       = "Path to config file"
	DescMetadataURL  = "Metadata server base URL"
	DescMetadataFile = "Read metadata from a JSONC file instead of the metadata server"
	DescPlatform     = "Bootstrap as this platform instead of the running one"
	DescRoot         = "Prefix every written path with this directory"
	DescDryRun       = "Resolve, download and verify, then print the installer command without running it"
	DescConfirm      = "Ask before running the installer"
	DescHashType     = "Digest algorithm"
	DescExpected     = "Expected hex digest"
	DescJSON         = "Output as JSON"
)

// addGlobalFlags registers the flags shared by every command.
func addGlobalFlags(fs *pflag.FlagSet, opts *rootOptions) {
	fs.BoolVar(&opts.debug, FlagDebug, false, DescDebug)
	fs.BoolVar(&opts.noColor, FlagNoColor, false, DescNoColor)
	fs.BoolVarP(&opts.quiet, FlagQuiet, "q", false, DescQuiet)
	fs.StringVarP(&opts.configPath, FlagConfig, "c", "", DescConfig)
	fs.StringVar(&opts.metadataURL, FlagMetadataURL, "", DescMetadataURL)
	fs.StringVar(&opts.metadataFile, FlagMetadataFile, "", DescMetadataFile)
	fs.StringVar(&opts.platform, FlagPlatform, "", DescPlatform)

	// Test and chroot use only.
	_ = fs.MarkHidden(FlagPlatform)
}

// addBootstrapFlags registers the flags of the bootstrap itself.
func addBootstrapFlags(fs *pflag.FlagSet, opts *rootOptions) {
	fs.StringVar(&opts.root, FlagRoot, "", DescRoot)
	fs.BoolVar(&opts.dryRun, FlagDryRun, false, DescDryRun)
	fs.BoolVar(&opts.confirm, FlagConfirm, false, DescConfirm)

	_ = fs.MarkHidden(FlagRoot)
}
