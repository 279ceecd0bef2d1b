// Package platform describes the operating systems kickstart-salt can
// bootstrap and what differs between them.
package platform

import (
	"fmt"
	"strings"
)

// Platform is a supported operating system. The set is closed.
type Platform int

const (
	Linux Platform = iota + 1
	Windows
)

// String returns the name used as a configuration key suffix, for
// example bootstrap_salt_save_path_Linux.
func (p Platform) String() string {
	switch p {
	case Linux:
		return "Linux"
	case Windows:
		return "Windows"
	default:
		return "unknown"
	}
}

// UnsupportedPlatformError reports an operating system outside the
// supported set.
type UnsupportedPlatformError struct {
	Name string
}

// Error implements the error interface.
func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("%s is not a supported platform of kickstart-salt", e.Name)
}

// Detect maps a GOOS value (or a platform name such as "Linux") to a
// Platform.
func Detect(goos string) (Platform, error) {
	switch strings.ToLower(goos) {
	case "linux":
		return Linux, nil
	case "windows":
		return Windows, nil
	default:
		return 0, &UnsupportedPlatformError{Name: goos}
	}
}

// Defaults holds the values used when configuration does not set them.
type Defaults struct {
	// SavePath is where the bootstrap script is downloaded to.
	SavePath string
	// DownloadURL serves the bootstrap script.
	DownloadURL string
	// HashType is the digest algorithm for bootstrap_salt_expected_hash.
	HashType string
	// Interpreter runs the bootstrap script.
	Interpreter string
	// CommandWrapper routes every command through the platform command
	// interpreter. Empty means commands are executed directly.
	CommandWrapper []string
}

// windowsBootstrapURL is pinned to a known revision of bootstrap-salt.ps1.
const windowsBootstrapURL = "https://raw.githubusercontent.com/saltstack/salt-bootstrap/e1cb060e655c564cecb857f179e0656ff8faf784/bootstrap-salt.ps1"

// Defaults returns the platform defaults. It is evaluated per call so
// that a run resolves them for the platform it was given.
func (p Platform) Defaults() (Defaults, error) {
	switch p {
	case Linux:
		return Defaults{
			SavePath:    "/tmp/bootstrap-salt.sh",
			DownloadURL: "https://bootstrap.saltstack.com",
			HashType:    "sha256",
			Interpreter: "sh",
		}, nil
	case Windows:
		return Defaults{
			SavePath:       `c:\bootstrap-salt.ps1`,
			DownloadURL:    windowsBootstrapURL,
			HashType:       "md5",
			Interpreter:    "powershell",
			CommandWrapper: []string{"cmd.exe", "/C"},
		}, nil
	default:
		return Defaults{}, &UnsupportedPlatformError{Name: p.String()}
	}
}
