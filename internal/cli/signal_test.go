//go:build unix

package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer lets the test read output while Run is still writing it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBootstrapTerminatedBySignal(t *testing.T) {
	script := "echo installer-started\nsleep 5\necho installer-finished\n"
	url := serve(t, script)
	md := writeMetadata(t, fmt.Sprintf(`{
      "bootstrap_salt_download_url": %q,
      "bootstrap_salt_expected_hash": %q,
      "bootstrap_salt_json_args": {"stable": null},
    }`, url, digest(script)))
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{}"), 0644))

	var stdout, stderr lockedBuffer
	done := make(chan int, 1)
	start := time.Now()
	go func() {
		done <- Run([]string{"--config", cfgPath, "--metadata-file", md,
			"--platform", "linux", "--root", t.TempDir()}, &stdout, &stderr)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "installer-started")
	}, 3*time.Second, 20*time.Millisecond, "installer never started")
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	var code int
	select {
	case code = <-done:
	case <-time.After(4 * time.Second):
		t.Fatal("run kept going after SIGTERM")
	}

	assert.Equal(t, 1, code)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.NotContains(t, stdout.String(), "installer-finished")
	assert.NotContains(t, stdout.String(), "Salt bootstrap completed")
	assert.Contains(t, stderr.String(), "bootstrap interrupted")
}
