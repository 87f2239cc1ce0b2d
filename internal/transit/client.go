// Package transit talks to the TfL Unified API
package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.tfl.gov.uk"

// StatusError is returned when TfL answers with a non-200 status
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("TfL %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("TfL %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Client is a stateless TfL API client. It never caches and never retries.
type Client struct {
	baseURL string
	appID   string
	appKey  string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a TfL client; timeout bounds every call
func NewClient(appID, appKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		appID:   appID,
		appKey:  appKey,
		client:  &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues an authenticated GET and decodes the JSON body into out
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.appID != "" {
		params.Set("app_id", c.appID)
	}
	if c.appKey != "" {
		params.Set("app_key", c.appKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling TfL %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("tfl call",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing TfL %s response: %w", endpoint, err)
	}
	return nil
}
