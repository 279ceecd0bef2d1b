// Package debug writes timestamped diagnostic lines to stderr when the
// --debug flag is set. Every call is a no-op while debugging is disabled.
package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	enabled bool
	noColor bool
	out     io.Writer = os.Stderr
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetNoColor enables or disables colored output
func SetNoColor(disable bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disable
}

// SetOutput redirects debug output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// emit writes one debug record. body is already formatted.
func emit(body string) {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	if noColor {
		fmt.Fprintf(out, "[DEBUG] %s %s\n", timestamp, body)
		return
	}
	fmt.Fprintf(out, "%s[DEBUG]%s %s%s%s %s\n",
		colorCyan, colorReset, colorGray, timestamp, colorReset, body)
}

// highlight wraps s in cyan unless colors are disabled.
func highlight(s string) string {
	mu.RLock()
	defer mu.RUnlock()
	if noColor {
		return s
	}
	return colorCyan + s + colorReset
}

// Debug prints a debug message with timestamp
func Debug(format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	emit(fmt.Sprintf(format, args...))
}

// DebugSection prints a section header for debug output
func DebugSection(section string) {
	if !IsEnabled() {
		return
	}
	emit(highlight("=== " + section + " ==="))
}

// DebugValue prints key=value style debug info
func DebugValue(key string, value interface{}) {
	if !IsEnabled() {
		return
	}
	emit(fmt.Sprintf("%s = %v", highlight(key), value))
}

// DebugJSON prints structured data as indented JSON. Values implementing
// json.Marshaler control their own key order.
func DebugJSON(key string, v interface{}) {
	if !IsEnabled() {
		return
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		Debug("Failed to marshal %s to JSON: %v", key, err)
		return
	}
	emit(fmt.Sprintf("%s:\n%s", highlight(key), data))
}
