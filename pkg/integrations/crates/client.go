package crates

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/matzehuels/cargoquery/pkg/buildinfo"
	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/integrations"
)

// DefaultIndexURL is the crates.io sparse index.
const DefaultIndexURL = "https://index.crates.io"

const sparsePrefix = "sparse+"

// Client fetches files from Cargo sparse indexes.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
}

// NewClient creates a sparse index client.
//
// Parameters:
//   - userAgent: User-Agent header value ("" for [buildinfo.UserAgent])
//   - timeout: per-request timeout (non-positive for the transport default)
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = buildinfo.UserAgent()
	}
	headers := map[string]string{"User-Agent": userAgent}
	return &Client{Client: integrations.NewClient(headers, timeout)}
}

// Fetch returns the raw index file found at path under baseURL.
//
// Returns:
//   - the file contents on success
//   - NOT_FOUND wrapping [integrations.ErrNotFound] if the index has no such file
//   - REQUEST wrapping [integrations.ErrNetwork] for other HTTP failures
//   - IO if the response body cannot be read
func (c *Client) Fetch(ctx context.Context, baseURL, path string) (string, error) {
	body, err := c.GetText(ctx, integrations.JoinURL(NormalizeIndexURL(baseURL), path))
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", errs.Wrap(errs.ErrCodeNotFound, err, "no index file at %s", path)
		}
		return "", err
	}
	return body, nil
}

// NormalizeIndexURL strips Cargo's "sparse+" scheme prefix and any trailing
// slash. An empty url yields [DefaultIndexURL].
func NormalizeIndexURL(url string) string {
	url = strings.TrimPrefix(strings.TrimSpace(url), sparsePrefix)
	url = strings.TrimRight(url, "/")
	if url == "" {
		return DefaultIndexURL
	}
	return url
}
