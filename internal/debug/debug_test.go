package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture enables debug output into a buffer for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	SetDebug(true)
	SetNoColor(true)
	t.Cleanup(func() {
		SetOutput(prev)
		SetDebug(false)
		SetNoColor(false)
	})
	return &buf
}

func TestSetDebug(t *testing.T) {
	SetDebug(false)
	assert.False(t, IsEnabled(), "debug should be disabled initially")

	SetDebug(true)
	assert.True(t, IsEnabled())

	SetDebug(false)
	assert.False(t, IsEnabled(), "debug should be disabled again")
}

func TestDebugOutput(t *testing.T) {
	buf := capture(t)

	Debug("test message %s", "arg")

	output := buf.String()
	assert.Regexp(t, `^\[DEBUG\] `, output)
	assert.Contains(t, output, "test message arg")
	assert.NotContains(t, output, "\033[", "no ANSI codes with no-color")
}

func TestDebugDisabled(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)
	SetDebug(false)

	Debug("hidden")
	DebugSection("hidden")
	DebugValue("hidden", 1)
	DebugJSON("hidden", map[string]int{"a": 1})

	assert.Zero(t, buf.Len(), "unexpected output: %s", buf.String())
}

func TestDebugSectionAndValue(t *testing.T) {
	buf := capture(t)

	DebugSection("bootstrap")
	DebugValue("[bootstrap] platform", "Linux")

	output := buf.String()
	assert.Contains(t, output, "=== bootstrap ===")
	assert.Contains(t, output, "[bootstrap] platform = Linux")
}

func TestDebugJSON(t *testing.T) {
	buf := capture(t)

	DebugJSON("args", map[string]interface{}{"-M": nil})

	assert.Contains(t, buf.String(), "args:\n{\n  \"-M\": null\n}")
}
