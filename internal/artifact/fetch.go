// Package artifact downloads the salt bootstrap script and checks its
// digest before anything executes it.
package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/tacogips/kickstart-salt/internal/debug"
)

// Fetcher downloads files over HTTP(S) into a filesystem.
type Fetcher struct {
	// HTTPClient performs the request. Redirects are followed.
	HTTPClient *http.Client
	// Fs receives the downloaded file.
	Fs afero.Fs
}

// NewFetcher creates a Fetcher writing into fsys.
func NewFetcher(fsys afero.Fs) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		Fs: fsys,
	}
}

// Fetch downloads url to savePath, replacing any existing file, and
// returns savePath. Transport errors and non-2xx responses are
// FetchNetwork errors; failures to create or write the file are
// FetchNotWritten.
func (f *Fetcher) Fetch(ctx context.Context, url, savePath string) (string, error) {
	if url == "" {
		return "", NewNetworkError(url, savePath, "url can't be empty", nil)
	}
	if savePath == "" {
		return "", NewNotWrittenError(url, savePath, "save path can't be empty", nil)
	}

	debug.Debug("[artifact] GET %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", NewNetworkError(url, savePath, "invalid request", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", NewNetworkError(url, savePath, "request failed", err)
	}
	defer resp.Body.Close()

	if final := resp.Request.URL.String(); final != url {
		debug.Debug("[artifact] Redirected to %s", final)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", NewNetworkError(url, savePath,
			fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	if dir := filepath.Dir(savePath); dir != "." {
		if err := f.Fs.MkdirAll(dir, 0755); err != nil {
			return "", NewNotWrittenError(url, savePath, "failed to create directory", err)
		}
	}

	out, err := f.Fs.Create(savePath)
	if err != nil {
		return "", NewNotWrittenError(url, savePath, "failed to create file", err)
	}

	w := &trackingWriter{w: out}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		out.Close()
		if w.err != nil {
			return "", NewNotWrittenError(url, savePath, "failed to write file", err)
		}
		return "", NewNetworkError(url, savePath, "failed to download body", err)
	}
	if err := out.Close(); err != nil {
		return "", NewNotWrittenError(url, savePath, "failed to close file", err)
	}
	debug.Debug("[artifact] Wrote %d bytes to %s", n, savePath)

	if _, err := f.Fs.Stat(savePath); err != nil {
		return "", NewNotWrittenError(url, savePath, "file missing after download", err)
	}

	return savePath, nil
}

// trackingWriter remembers write failures so they can be told apart from
// read failures on the response body.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		t.err = err
	}
	return n, err
}
