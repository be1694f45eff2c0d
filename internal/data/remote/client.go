// Package remote fetches bookings from the hosted booking API.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/colonyops/hitch/internal/core/auth"
	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/rs/zerolog/log"
)

// maxBody caps the response size read from the API.
const maxBody = 8 << 20

// Client implements booking.Fetcher over HTTP. It is read-only.
type Client struct {
	baseURL *url.URL
	auth    auth.Provider
	http    *http.Client
	agent   string
}

var _ booking.Fetcher = (*Client)(nil)

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// New creates a client for the API at baseURL. A nil provider sends
// requests without credentials.
func New(baseURL string, provider auth.Provider, timeout time.Duration, version string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q must be http or https", baseURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	return &Client{
		baseURL: u,
		auth:    provider,
		http:    &http.Client{Timeout: timeout},
		agent:   "hitch/" + version,
	}, nil
}

// ListBookings implements booking.Fetcher with GET {base}/bookings.
func (c *Client) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	endpoint := c.baseURL.JoinPath("bookings")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.agent)

	if c.auth != nil {
		sess, err := c.auth.Session(ctx)
		switch {
		case errors.Is(err, auth.ErrNoSession):
		case err != nil:
			return nil, fmt.Errorf("read session: %w", err)
		case sess.Token != "":
			req.Header.Set("Authorization", "Bearer "+sess.Token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request bookings: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug().Err(err).Msg("remote: close bookings response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read bookings body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request bookings: %w", &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(body)),
		})
	}

	var bookings []booking.Booking
	if err := json.Unmarshal(body, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}

	for i, b := range bookings {
		if b.ID == "" {
			return nil, fmt.Errorf("decode bookings: entry %d has no id", i)
		}
		if b.Status == "" {
			bookings[i].Status = booking.StatusPending
		}
	}

	log.Debug().Int("count", len(bookings)).Str("url", endpoint.String()).Msg("remote: fetched bookings")
	return bookings, nil
}
