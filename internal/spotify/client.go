// Package spotify wraps the Spotify Web API endpoints the ingester needs,
// enforcing the provider's per-entity-type batch ceilings.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"

	// Batch ceilings imposed by the provider, per fetch call.
	MaxArtistBatch = 50
	MaxAlbumBatch  = 20
	MaxTrackBatch  = 50

	// MaxRecentlyPlayed is the largest page the recently-played feed serves.
	MaxRecentlyPlayed = 50

	rateLimitRetries = 3
)

// Client is a catalog API client. The http.Client must carry
// authentication (an oauth2 transport).
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *slog.Logger
}

// New creates a catalog client on top of an authenticated http.Client.
func New(httpClient *http.Client, log *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		log:        log,
	}
}

// get performs a GET against the API and decodes the JSON response into
// dst. Rate-limited requests honor Retry-After and are retried a bounded
// number of times before surfacing a rate-limit error.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, dst any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		body, retryAfter, err := c.doSingleRequest(ctx, op, reqURL)
		if err == nil {
			if jsonErr := json.Unmarshal(body, dst); jsonErr != nil {
				return fmt.Errorf("%s: decoding response: %w", op, jsonErr)
			}
			return nil
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Kind != KindRateLimit || attempt >= rateLimitRetries {
			return err
		}

		c.log.Warn("rate limited, backing off", "op", op, "wait", retryAfter)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryAfter):
		}
	}
}

// doSingleRequest performs a single HTTP request. On a 429 it also returns
// the wait the provider asked for.
func (c *Client) doSingleRequest(ctx context.Context, op, reqURL string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: creating request: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: executing request: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: reading response body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{
			Op:      op,
			Status:  resp.StatusCode,
			Kind:    kindForStatus(resp.StatusCode),
			Message: apiErrorMessage(body),
		}
		return nil, retryAfterWait(resp), apiErr
	}

	return body, 0, nil
}

// retryAfterWait reads the Retry-After header off a 429 response, falling
// back to a fixed pause when the header is absent or malformed.
func retryAfterWait(resp *http.Response) time.Duration {
	if resp.StatusCode != 429 {
		return 0
	}
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds)*time.Second + time.Second
		}
	}
	return 5 * time.Second
}

// apiErrorMessage extracts the error message the API embeds in failure
// bodies, if any.
func apiErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error.Message
}

// capBatch truncates ids to the given ceiling, logging a warning when input
// exceeds it. Callers are expected to chunk before calling; this is the
// safety net that keeps an oversized request from ever reaching the
// provider.
func (c *Client) capBatch(op string, ids []string, ceiling int) []string {
	if len(ids) <= ceiling {
		return ids
	}
	c.log.Warn("too many ids for one request, truncating",
		"op", op, "got", len(ids), "ceiling", ceiling)
	return ids[:ceiling]
}
