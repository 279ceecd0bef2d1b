package integration

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fixture is a bootstrap script served over HTTP plus a metadata file
// pointing at it.
type fixture struct {
	// MetadataFile is the rendered metadata document.
	MetadataFile string
	// Root receives every file the bootstrap writes.
	Root string
}

// readFixture returns the content of a file under test/fixtures.
func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	path, err := filepath.Abs(filepath.Join("../fixtures", name))
	if err != nil {
		t.Fatalf("failed to get fixture path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

// newFixture serves the stand-in bootstrap script and renders the named
// metadata fixture with its URL and digest.
func newFixture(t *testing.T, metadataName, hashType string) *fixture {
	t.Helper()

	script := readFixture(t, "scripts/bootstrap-salt.sh")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(script)
	}))
	t.Cleanup(srv.Close)

	var digest string
	switch hashType {
	case "sha512":
		sum := sha512.Sum512(script)
		digest = hex.EncodeToString(sum[:])
	default:
		sum := sha256.Sum256(script)
		digest = hex.EncodeToString(sum[:])
	}

	doc := string(readFixture(t, "metadata/"+metadataName))
	doc = strings.ReplaceAll(doc, "{{URL}}", srv.URL+"/bootstrap-salt.sh")
	doc = strings.ReplaceAll(doc, "{{HASH}}", digest)

	tempDir := t.TempDir()
	metadataFile := filepath.Join(tempDir, metadataName)
	if err := os.WriteFile(metadataFile, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write metadata file: %v", err)
	}

	root := filepath.Join(tempDir, "root")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("failed to create root: %v", err)
	}

	return &fixture{MetadataFile: metadataFile, Root: root}
}

// readRootFile reads a file written below the fixture root.
func (f *fixture) readRootFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.Root, filepath.FromSlash(path)))
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// installerArgs returns the arguments the stand-in script received.
func (f *fixture) installerArgs(t *testing.T) []string {
	t.Helper()
	return strings.Split(strings.TrimSuffix(f.readRootFile(t, "tmp/bootstrap-args"), "\n"), "\n")
}
