// Package fetch downloads the exported timetable archives.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client fetches source archives. Transport failures are fatal because
// they usually mean misconfiguration; a reachable server answering with
// a non-200 status is treated as transient and retried until the context
// expires, since the export host routinely throws 5xx under load.
type Client struct {
	http       *http.Client
	retryDelay time.Duration
	log        *zap.Logger
}

// NewClient builds a fetch client. Timeout bounds a single request, not
// the whole retry loop; the caller's context bounds that.
func NewClient(timeout, retryDelay time.Duration, log *zap.Logger) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		retryDelay: retryDelay,
		log:        log,
	}
}

// Archive downloads the archive at url, retrying bad statuses until the
// context is done.
func (c *Client) Archive(ctx context.Context, url string) ([]byte, error) {
	for {
		body, retry, err := c.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}

		c.log.Warn("source returned bad status, retrying",
			zap.String("url", url),
			zap.Duration("delay", c.retryDelay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *Client) attempt(ctx context.Context, url string) (body []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	return body, false, nil
}
