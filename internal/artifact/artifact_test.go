package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = "#!/bin/sh\necho bootstrap\n"

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))
}

func TestVerify(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/tmp/bootstrap-salt.sh", script)
	digest := sha256Hex(script)

	ok, err := Verify(fsys, "/tmp/bootstrap-salt.sh", "sha256", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(fsys, "/tmp/bootstrap-salt.sh", "sha256", strings.ToUpper(digest))
	require.NoError(t, err)
	assert.True(t, ok, "hex comparison is case-insensitive")

	// Flip one byte.
	writeFile(t, fsys, "/tmp/bootstrap-salt.sh", "#!/bin/sh\necho bootstrap!\n")
	ok, err = Verify(fsys, "/tmp/bootstrap-salt.sh", "sha256", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyLargerThanChunk(t *testing.T) {
	fsys := afero.NewMemMapFs()
	content := strings.Repeat("0123456789abcdef", chunkSize)
	writeFile(t, fsys, "/big", content)

	ok, err := Verify(fsys, "/big", "SHA256", sha256Hex(content))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/f", "x")

	tests := []struct {
		name     string
		path     string
		hashType string
		expected string
		wantType VerifyErrorType
	}{
		{name: "unsupported algorithm", path: "/f", hashType: "sha999", expected: "00", wantType: VerifyUnsupportedAlgorithm},
		{name: "missing path", path: "", hashType: "sha256", expected: "00", wantType: VerifyMissingParameter},
		{name: "missing algorithm", path: "/f", hashType: "", expected: "00", wantType: VerifyMissingParameter},
		{name: "missing digest", path: "/f", hashType: "sha256", expected: "", wantType: VerifyMissingParameter},
		{name: "missing file", path: "/nope", hashType: "sha256", expected: "00", wantType: VerifyReadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Verify(fsys, tt.path, tt.hashType, tt.expected)
			assert.False(t, ok)
			var verr *VerifyError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantType, verr.Type)
		})
	}
}

func TestDigestKnownVectors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/abc", "abc")

	tests := map[string]string{
		"md5":      "900150983cd24fb0d6963f7d28e17f72",
		"sha1":     "a9993e364706816aba3e25717850c26c9cd0d89d",
		"sha256":   "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		"sha3_256": "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532",
		"blake2s":  "508c5e8c327c14e2e1a72ba34eeb452f37458b209ed63a294d999b4c86675982",
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Digest(fsys, "/abc", name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	for algo, name := range algorithmNames {
		parsed, err := ParseAlgorithm(name)
		require.NoError(t, err)
		assert.Equal(t, algo, parsed)

		h, err := parsed.New()
		require.NoError(t, err)
		assert.NotNil(t, h)
	}

	_, err := ParseAlgorithm("sha999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"sha999" is not a valid hash type`)
}

func TestFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/releases/bootstrap-salt.sh", http.StatusFound)
	})
	mux.HandleFunc("/releases/bootstrap-salt.sh", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(script))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/tmp/bootstrap-salt.sh", "stale content that is longer than the script itself")

	f := NewFetcher(fsys)
	path, err := f.Fetch(context.Background(), srv.URL+"/bootstrap", "/tmp/bootstrap-salt.sh")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/bootstrap-salt.sh", path)

	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	assert.Equal(t, script, string(data))
}

func TestFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	t.Run("status code", func(t *testing.T) {
		f := NewFetcher(afero.NewMemMapFs())
		_, err := f.Fetch(context.Background(), srv.URL+"/missing", "/tmp/x")
		var ferr *FetchError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, FetchNetwork, ferr.Type)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("unreachable", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		url := closed.URL
		closed.Close()

		f := NewFetcher(afero.NewMemMapFs())
		_, err := f.Fetch(context.Background(), url, "/tmp/x")
		var ferr *FetchError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, FetchNetwork, ferr.Type)
	})

	t.Run("read-only filesystem", func(t *testing.T) {
		ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(script))
		}))
		defer ok.Close()

		f := NewFetcher(afero.NewReadOnlyFs(afero.NewMemMapFs()))
		_, err := f.Fetch(context.Background(), ok.URL, "/tmp/x")
		var ferr *FetchError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, FetchNotWritten, ferr.Type)
	})
}
