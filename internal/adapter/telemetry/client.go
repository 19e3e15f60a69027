package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned for upstream 404 responses.
var ErrNotFound = fmt.Errorf("execution not found")

// Client is the telemetry API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new telemetry client. token is sent as a bearer
// token on every request.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListExecutions fetches a page of executions for a project.
func (c *Client) ListExecutions(ctx context.Context, projectID string, limit, offset *int) (json.RawMessage, error) {
	query := url.Values{}
	if limit != nil {
		query.Set("limit", strconv.Itoa(*limit))
	}
	if offset != nil {
		query.Set("offset", strconv.Itoa(*offset))
	}
	path := fmt.Sprintf("/projects/%s/executions", url.PathEscape(projectID))
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return c.get(ctx, path)
}

// GetExecution fetches the detail payload for one trace.
func (c *Client) GetExecution(ctx context.Context, projectID, traceID string) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/projects/%s/executions/%s",
		url.PathEscape(projectID), url.PathEscape(traceID)))
}

// GetTimeline fetches the timeline events for one trace.
func (c *Client) GetTimeline(ctx context.Context, projectID, traceID string) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/projects/%s/executions/%s/timeline",
		url.PathEscape(projectID), url.PathEscape(traceID)))
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telemetry request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read telemetry response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("telemetry returned status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
