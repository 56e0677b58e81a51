package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody caps how much of an error response is quoted back.
const maxErrorBody = 512

// client wraps http.Client with the server's base URL.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// getJSON performs a GET request and decodes a 200 response into v.
func (c *client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s: HTTP %d: %s", ErrUnexpectedStatus, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *client) health(ctx context.Context) error {
	return c.getJSON(ctx, "/healthz", nil)
}

func (c *client) leaderboard(ctx context.Context, n int) ([]Entry, error) {
	var out []Entry
	err := c.getJSON(ctx, fmt.Sprintf("/api/leaderboard?limit=%d", n), &out)
	return out, err
}

func (c *client) rank(ctx context.Context, riderID string) (Entry, error) {
	var out Entry
	err := c.getJSON(ctx, "/api/rank/"+url.PathEscape(riderID), &out)
	return out, err
}
