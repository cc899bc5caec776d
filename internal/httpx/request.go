// Package httpx is the shared HTTP request helper for all outbound REST
// calls (messaging gateway, weather, agent platform). It normalizes
// method handling, JSON encoding/decoding, and the error taxonomy:
// transport failures and HTTP status failures are distinguishable from
// an empty-but-successful response.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Options tunes a single request.
type Options struct {
	Method  string        // GET, POST, PUT (default POST)
	Timeout time.Duration // per-call timeout (default DefaultTimeout)
	Proxy   string        // optional proxy URL
}

// HTTPError is returned for non-2xx responses so callers can tell a
// rejected request apart from a transport failure.
type HTTPError struct {
	Status int
	URL    string
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d from %s: %s", e.Status, e.URL, truncate(e.Body, 200))
}

// Request sends a JSON request and decodes the JSON response body.
// data is marshalled as the request body for POST/PUT and ignored for
// GET. Unsupported methods are an error, not a silent fallback.
func Request(ctx context.Context, rawURL string, data any, opts Options) (map[string]any, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodPost
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		return nil, fmt.Errorf("unsupported method: %s", opts.Method)
	}

	var body io.Reader
	if data != nil && method != http.MethodGet {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Status: resp.StatusCode, URL: rawURL, Body: string(raw)}
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", rawURL, err)
	}
	return decoded, nil
}

func newClient(opts Options) (*http.Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return client, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
