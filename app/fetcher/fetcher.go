// Package fetcher downloads remote Atom documents. NewSafeClient builds
// an SSRF-hardened HTTP client that blocks private, loopback and
// link-local destinations at the dialer level, which also covers DNS
// rebinding.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
)

// NewSafeClient creates an HTTP client restricted to http/https on the
// standard ports, with resolved IPs validated against private, loopback,
// link-local and metadata ranges.
func NewSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(config).Client
}

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBody    int64
}

// NewFetcher creates a fetcher using the given HTTP client, User-Agent
// header and response body cap in bytes.
func NewFetcher(httpClient *http.Client, userAgent string, maxBody int64) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		maxBody:    maxBody,
	}
}

// Run fetches the document at url and returns its bytes.
func (f *Fetcher) Run(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/atom+xml, application/xml, text/xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > f.maxBody {
		return nil, fmt.Errorf("response body exceeds %d bytes", f.maxBody)
	}

	return data, nil
}
