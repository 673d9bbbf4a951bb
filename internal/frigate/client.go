package frigate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client provides access to the Frigate HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout adjusts the request timeout on the active HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a Frigate API client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("frigate base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetEventSummary fetches per-day counts of clip-backed events grouped by
// camera, label, and zone set.
func (c *Client) GetEventSummary(ctx context.Context) ([]EventSummaryRow, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/events/summary")
	if err != nil {
		return nil, fmt.Errorf("parse frigate url: %w", err)
	}
	params := url.Values{}
	params.Set("has_clip", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: "event summary", StatusCode: resp.StatusCode, Latency: latency}
	}

	var payload []EventSummaryRow
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode event summary: %w", err)
	}
	return payload, nil
}

// GetEvents fetches clip-backed events matching the query, newest first.
func (c *Client) GetEvents(ctx context.Context, query EventsQuery) ([]Event, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/events")
	if err != nil {
		return nil, fmt.Errorf("parse frigate url: %w", err)
	}
	params := url.Values{}
	params.Set("has_clip", "1")
	if query.After != nil {
		params.Set("after", strconv.FormatInt(*query.After, 10))
	}
	if query.Before != nil {
		params.Set("before", strconv.FormatInt(*query.Before, 10))
	}
	if query.Camera != "" {
		params.Set("camera", query.Camera)
	}
	if query.Label != "" {
		params.Set("label", query.Label)
	}
	if query.Zone != "" {
		params.Set("zone", query.Zone)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: "events", StatusCode: resp.StatusCode, Latency: latency}
	}

	var payload []Event
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return payload, nil
}

// GetRecordingsFolder lists one directory of the recordings tree. The path is
// the slash-joined folder path starting at "recordings".
func (c *Client) GetRecordingsFolder(ctx context.Context, path string) ([]FolderEntry, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return nil, errors.New("folder path must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/" + path + "/")
	if err != nil {
		return nil, fmt.Errorf("parse frigate url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: "recordings folder", StatusCode: resp.StatusCode, Latency: latency}
	}

	var payload []FolderEntry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode folder listing: %w", err)
	}
	return payload, nil
}

// GetVersion fetches the recorder version string.
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/version")
	if err != nil {
		return "", fmt.Errorf("parse frigate url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return "", fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Op: "version", StatusCode: resp.StatusCode, Latency: latency}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", fmt.Errorf("read version: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

// GetStats fetches runtime statistics from the recorder.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/stats")
	if err != nil {
		return nil, fmt.Errorf("parse frigate url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: "stats", StatusCode: resp.StatusCode, Latency: latency}
	}

	var payload Stats
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &payload, nil
}

// GetConfig fetches the recorder configuration.
func (c *Client) GetConfig(ctx context.Context) (*Config, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/config")
	if err != nil {
		return nil, fmt.Errorf("parse frigate url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: "config", StatusCode: resp.StatusCode, Latency: latency}
	}

	var payload Config
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &payload, nil
}
