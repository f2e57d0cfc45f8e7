package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSession fetches pages with a plain HTTP client, without script
// execution. It serves sites whose links are present in the initial HTML.
type HTTPSession struct {
	// client performs the requests.
	client *http.Client

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// HTTPOption configures an HTTPSession.
type HTTPOption func(*HTTPSession)

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSession) {
		s.client.Timeout = d
	}
}

// WithHTTPUserAgent sets a custom User-Agent header.
func WithHTTPUserAgent(ua string) HTTPOption {
	return func(s *HTTPSession) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
// Non-positive sizes keep the default.
func WithMaxBodySize(size int64) HTTPOption {
	return func(s *HTTPSession) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// NewHTTPSession creates an HTTPSession with its own client.
func NewHTTPSession(opts ...HTTPOption) *HTTPSession {
	s := &HTTPSession{
		client:      &http.Client{Timeout: 10 * time.Second},
		userAgent:   "sitemapper/1.0",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Render performs a GET request and returns the response body.
// Responses with a non-2xx status are errors: a 404 or 500 page should
// not contribute links to the crawl.
func (s *HTTPSession) Render(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases client resources.
func (s *HTTPSession) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
