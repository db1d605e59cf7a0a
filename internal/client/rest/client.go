package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultUserAgent = "cardvault/1.0 (catalog ingestion; +https://cardvault.app)"

// Client is the shared JSON fetch adapter for all catalog providers. It
// attaches the default headers, translates non-2xx statuses into typed
// errors, and decodes the body; it does not validate response shape beyond
// JSON parseability.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{HTTP: httpClient, UserAgent: defaultUserAgent}
}

// RateLimitedError is returned for HTTP 429 so callers can tell throttling
// apart from genuine upstream failure.
type RateLimitedError struct {
	URL string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited by upstream (429): %s", e.URL)
}

// UpstreamError is any other non-2xx response.
type UpstreamError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (%s): %s", e.Status, e.URL)
}

// GetJSON fetches url and decodes the JSON body into out. Caller headers are
// merged in without overriding Accept or User-Agent.
func (c *Client) GetJSON(ctx context.Context, url string, headers http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return &RateLimitedError{URL: url}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
