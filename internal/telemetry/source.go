package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MetricsPath is appended to the API base for every fetch.
const MetricsPath = "/api/metrics"

// maxBody caps how much of a metrics response is read.
const maxBody = 1 << 20

// Source fetches snapshots. Configured reports false in standby, in which case
// Fetch is never called.
type Source interface {
	Configured() bool
	Fetch(ctx context.Context) (*Snapshot, error)
}

// HTTPSource fetches <BaseURL>/api/metrics.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPSource returns a source for baseURL. A trailing slash is dropped.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{},
		Timeout: timeout,
	}
}

// Configured reports whether a base URL is set.
func (s *HTTPSource) Configured() bool {
	return s != nil && s.BaseURL != ""
}

// URL returns the metrics endpoint.
func (s *HTTPSource) URL() string {
	return s.BaseURL + MetricsPath
}

// Fetch issues one GET with caching disabled. Non-2xx statuses and bodies
// that are not a JSON object are errors.
func (s *HTTPSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, err
	}

	snap, err := DecodeSnapshot(body)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return snap, nil
}
