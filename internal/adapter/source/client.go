// Package source fetches the Latin text and its English translation from
// their upstream archives. Both sources hide URL patterns, retry policy,
// on-disk caching, and markup parsing behind a small fetch API.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// Client is an HTTP client with exponential-backoff retries. A zero value is
// not usable; construct with NewClient.
type Client struct {
	http       *http.Client
	maxRetries int
	backoff    time.Duration
	log        *slog.Logger
}

// NewClient creates a retrying client. maxRetries is the total number of
// attempts; backoff is the wait after the first failure and doubles per
// attempt.
func NewClient(log *slog.Logger, timeout time.Duration, maxRetries int, backoff time.Duration) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		backoff:    backoff,
		log:        log,
	}
}

// Get fetches the URL, retrying transient failures. Non-2xx responses count
// as failures. The returned error wraps domain.ErrFetch once all attempts
// are exhausted.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			c.log.Warn("request failed, retrying",
				slog.String("url", url),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", c.maxRetries),
				slog.Duration("wait", wait),
				slog.Any("error", lastErr))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrFetch, ctx.Err())
			}
		}

		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: failed after %d attempts: %v", domain.ErrFetch, c.maxRetries, lastErr)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
