// Package apiclient talks to the trip API over HTTP. Client satisfies
// dashboard.Gateway so the dashboard can run against a remote deployment.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joshua-takyi/tripdesk/internal/dashboard"
	"github.com/joshua-takyi/tripdesk/internal/models"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a client for the API rooted at baseURL. The token is sent as a
// bearer credential on every request.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ dashboard.Gateway = (*Client)(nil)

func (c *Client) ListTrips(ctx context.Context) ([]models.Trip, error) {
	trips := []models.Trip{}
	if err := c.do(ctx, http.MethodGet, "/api/trips", nil, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *Client) GetTrip(ctx context.Context, id int64) (models.Trip, error) {
	var trip models.Trip
	err := c.do(ctx, http.MethodGet, tripPath(id), nil, &trip)
	return trip, err
}

// CreateTrip returns the first row the API echoes back.
func (c *Client) CreateTrip(ctx context.Context, in models.TripInput) (models.Trip, error) {
	var rows []models.Trip
	if err := c.do(ctx, http.MethodPost, "/api/trips", in, &rows); err != nil {
		return models.Trip{}, err
	}
	if len(rows) == 0 {
		return models.Trip{}, &dashboard.RemoteError{Message: "no trip returned after insert"}
	}
	return rows[0], nil
}

// UpdateTrip returns the zero Trip when the id matched nothing.
func (c *Client) UpdateTrip(ctx context.Context, id int64, patch models.TripPatch) (models.Trip, error) {
	var rows []models.Trip
	if err := c.do(ctx, http.MethodPut, tripPath(id), patch, &rows); err != nil {
		return models.Trip{}, err
	}
	if len(rows) == 0 {
		return models.Trip{}, nil
	}
	return rows[0], nil
}

func (c *Client) DeleteTrip(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, tripPath(id), nil, nil)
}

func (c *Client) DeleteTripImages(ctx context.Context, tripKey string) error {
	return c.do(ctx, http.MethodDelete, "/api/trips/"+url.PathEscape(tripKey)+"/images", nil, nil)
}

func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func tripPath(id int64) string {
	return "/api/trips/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return dashboard.Remote(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return dashboard.Remote(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &dashboard.RemoteError{Message: errorMessage(resp.StatusCode, raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return dashboard.Remote(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// errorMessage prefers the API's error text, then its message, then the
// status line.
func errorMessage(status int, raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
