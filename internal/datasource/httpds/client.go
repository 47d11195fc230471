// Package httpds implements the HTTP datasource used to fetch dataset CSV
// snapshots, with retry/backoff for transient failures.
//
// Design goals:
//
//   - Keep a tiny, explicit API (Get, Do, and a Source adapter).
//   - Handle transient failures with exponential backoff.
//   - Respect context cancellation during requests and backoff waits.
//   - Be easy to test by injecting a custom RoundTripper and sleep function.
package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchError reports that a dataset snapshot could not be retrieved. It is
// fatal to the run: the pipeline has no partial-success mode.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// Config configures the HTTP datasource client.
//
// Zero values are given sensible defaults:
//   - Timeout:        30s
//   - MaxRetries:     3
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
type Config struct {
	// Timeout is the per-request timeout applied at the http.Client level.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial request.
	MaxRetries int

	// InitialBackoff is the base backoff for the first retry; each retry
	// doubles it up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Transport is an optional custom RoundTripper, mainly for tests.
	Transport http.RoundTripper
}

// Client wraps an http.Client with retry and backoff behavior.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	// sleep is injectable to make tests fast and deterministic.
	sleep func(time.Duration)
}

// NewClient constructs a Client from Config, applying defaults for zero values.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		sleep:          time.Sleep,
	}
}

// Get fetches url with retry and backoff on transient errors (network
// failures, 5xx, 429). The caller must close the response body. Non-2xx
// terminal statuses are returned as a *FetchError.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if url == "" {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("url must not be empty")}
	}

	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}

		resp, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			// Transport-level error; retryable.
			lastErr = err
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		case isRetryableStatus(resp.StatusCode):
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("retryable status %s", resp.Status)
		default:
			_ = resp.Body.Close()
			return nil, &FetchError{URL: url, Err: fmt.Errorf("status %s", resp.Status)}
		}

		if attempt+1 >= attempts {
			break
		}
		if err := c.backoff(ctx, attempt); err != nil {
			return nil, err
		}
	}
	return nil, &FetchError{URL: url, Err: lastErr}
}

// Source adapts a Client + URL pair to datasource.Source.
type Source struct {
	Client *Client
	URL    string
}

// Open performs the GET and returns the response body stream.
func (s Source) Open(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = NewClient(Config{})
	}
	resp, err := client.Get(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// isRetryableStatus is intentionally conservative: 5xx and 429 are treated as
// transient; everything else is final.
func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// backoff waits for the exponential backoff duration of the given 0-based
// retry index, aborting early if ctx is canceled.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	d := c.initialBackoff << attempt
	if d > c.maxBackoff {
		d = c.maxBackoff
	}
	done := make(chan struct{})
	go func() {
		c.sleep(d)
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
