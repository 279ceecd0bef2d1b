// Package installer turns the bootstrap_salt_json_args configuration map
// into the argument vector of the salt bootstrap script.
package installer

import (
	"github.com/tacogips/kickstart-salt/internal/debug"
	"github.com/tacogips/kickstart-salt/internal/jsondoc"
)

// MasterFlag marks a run that bootstraps a salt master.
const MasterFlag = "-M"

// jsonPassthrough flags take a structured value that is handed to the
// installer as JSON text (-j minion config, -J master config).
var jsonPassthrough = map[string]bool{
	"-j": true,
	"-J": true,
}

// releaseChannels select the install type. The bootstrap script requires
// them after every other option.
var releaseChannels = map[string]bool{
	"stable":  true,
	"daily":   true,
	"testing": true,
	"git":     true,
}

// IsReleaseChannel reports whether key is an install-type argument.
func IsReleaseChannel(key string) bool {
	return releaseChannels[key]
}

// IsMaster reports whether the arguments request a master bootstrap.
func IsMaster(args *jsondoc.Object) bool {
	return args.Has(MasterFlag)
}

// Translate flattens args into command-line tokens. Entries are emitted in
// key order as the flag followed by its value; a value that is empty,
// false, zero or null is omitted so the flag stands alone. -j and -J are
// always followed by their JSON-encoded value. Release channels are held
// back and emitted last, in their original relative order.
//
// No shell quoting is applied; run the result without a shell.
func Translate(args *jsondoc.Object) []string {
	var out []string
	var deferred []string

	for _, key := range args.Keys() {
		val, _ := args.Get(key)

		switch {
		case jsonPassthrough[key]:
			out = append(out, key, jsondoc.Encode(val))
		case IsReleaseChannel(key):
			debug.Debug("[installer] Deferring release channel %q", key)
			deferred = append(deferred, key)
		default:
			out = appendFlag(out, key, val)
		}
	}

	for _, key := range deferred {
		val, _ := args.Get(key)
		out = appendFlag(out, key, val)
	}

	return out
}

func appendFlag(out []string, key string, val interface{}) []string {
	out = append(out, key)
	// true is a presence flag like null or "".
	if b, ok := val.(bool); ok && b {
		return out
	}
	if jsondoc.Truthy(val) {
		out = append(out, jsondoc.Text(val))
	}
	return out
}
