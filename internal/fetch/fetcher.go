// Package fetch retrieves raw content from external URLs with bounded
// timeouts and a conventional client identity header.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/javariai/corpus/internal/domain"
)

const (
	// DefaultTimeout bounds a single fetch, matching the per-page
	// budget used during bulk imports.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies the importer to third-party sites.
	DefaultUserAgent = "Mozilla/5.0 (compatible; corpus-importer/1.0)"

	// DefaultMaxContentSize caps the bytes read from any one response.
	DefaultMaxContentSize int64 = 10 * 1024 * 1024

	maxRedirects = 5
)

// Fetcher fetches raw bytes over HTTP.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	maxContentSize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxContentSize overrides the response size cap.
func WithMaxContentSize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxContentSize = n
		}
	}
}

// NewFetcher creates a Fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	f := &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (max %d)", maxRedirects)
				}
				return nil
			},
		},
		userAgent:      DefaultUserAgent,
		maxContentSize: DefaultMaxContentSize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the body at urlStr. A transport failure or a
// non-success status is reported as a FetchError.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, domain.NewFetchError(urlStr, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domain.NewFetchError(urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewFetchError(urlStr,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	limited := io.LimitReader(resp.Body, f.maxContentSize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, domain.NewFetchError(urlStr, fmt.Errorf("read body: %w", err))
	}

	if int64(len(body)) > f.maxContentSize {
		return nil, domain.NewFetchError(urlStr,
			fmt.Errorf("content too large (exceeds %d bytes)", f.maxContentSize))
	}

	return body, nil
}
