// Package metadata reads GCE instance and project metadata values.
package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tacogips/kickstart-salt/internal/debug"
)

// DefaultBaseURL is the metadata server root on every GCE instance.
const DefaultBaseURL = "http://metadata.google.internal/computeMetadata/v1"

// flavorHeader must accompany every request or the server rejects it.
const (
	flavorHeader = "Metadata-Flavor"
	flavorValue  = "Google"
)

// Scope selects the metadata tree a key is read from.
type Scope int

const (
	// Instance is the per-VM metadata.
	Instance Scope = iota
	// Project is the project-wide metadata shared by all VMs.
	Project
)

// String returns the URL path segment of the scope.
func (s Scope) String() string {
	switch s {
	case Instance:
		return "instance"
	case Project:
		return "project"
	default:
		return "unknown"
	}
}

// Getter looks up a metadata value. ok is false when the key is not set.
type Getter interface {
	Get(ctx context.Context, scope Scope, key string) (value string, ok bool, err error)
}

// Client reads metadata from the GCE metadata server.
type Client struct {
	// BaseURL is the server root, DefaultBaseURL unless overridden.
	BaseURL string
	// HTTPClient performs the requests.
	HTTPClient *http.Client
}

// NewClient creates a client for baseURL. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Get fetches scope/key. Any status other than 200 means the key is
// unset. Failing to reach the server at all is a TransportUnreachable
// error.
func (c *Client) Get(ctx context.Context, scope Scope, key string) (string, bool, error) {
	url := fmt.Sprintf("%s/%s/%s", c.BaseURL, scope, strings.TrimLeft(key, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, &MetadataError{Type: RequestFailed, Source: url, Message: "invalid request", Cause: err}
	}
	req.Header.Set(flavorHeader, flavorValue)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", false, NewUnreachableError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		debug.Debug("[metadata] %s: status %d, treating as unset", url, resp.StatusCode)
		return "", false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, &MetadataError{Type: RequestFailed, Source: url, Message: "failed to read response", Cause: err}
	}

	debug.Debug("[metadata] %s: %d bytes", url, len(body))
	return string(body), true, nil
}

// InstanceValue returns the instance metadata value for key.
func InstanceValue(ctx context.Context, g Getter, key string) (string, bool, error) {
	return g.Get(ctx, Instance, key)
}

// ProjectValue returns the project metadata value for key.
func ProjectValue(ctx context.Context, g Getter, key string) (string, bool, error) {
	return g.Get(ctx, Project, key)
}

// AnyValue returns the instance value for key if set, else the project
// value, else def.
func AnyValue(ctx context.Context, g Getter, key, def string) (string, error) {
	if v, ok, err := InstanceValue(ctx, g, key); err != nil || ok {
		return v, err
	}
	if v, ok, err := ProjectValue(ctx, g, key); err != nil || ok {
		return v, err
	}
	return def, nil
}
