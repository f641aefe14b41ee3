// Package locgen produces batches of location requests, either from a
// hosted generation service or from a local offline generator.
package locgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/solenne/mapforge/internal/placement"
)

const defaultBaseURL = "https://api.mapforge.dev/v1/locations"

// Client calls the hosted location generation service. The service returns
// {type, name, description} tuples; only the type field drives placement.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// Rate limiting: max calls per minute.
	mu        sync.Mutex
	callCount int
	resetAt   time.Time
	maxPerMin int
}

// NewClient creates a generation service client.
// Returns nil if apiKey is empty (remote generation disabled).
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxPerMin: 20,
	}
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// SetBaseURL overrides the service endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// request is the service request body.
type request struct {
	Theme string `json:"theme,omitempty"`
	Count int    `json:"count"`
}

// response is the service response body.
type response struct {
	Locations []struct {
		Type        string `json:"type"`
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"locations"`
}

// GenerateBatch requests count locations for the given theme. Types outside
// the closed enumeration are a contract violation by the service and fail
// the whole batch here at the boundary.
func (c *Client) GenerateBatch(theme string, count int) ([]placement.Request, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("generation client not configured")
	}
	if count <= 0 {
		return nil, fmt.Errorf("batch count must be positive, got %d", count)
	}

	// Rate limiting.
	c.mu.Lock()
	now := time.Now()
	if now.After(c.resetAt) {
		c.callCount = 0
		c.resetAt = now.Add(time.Minute)
	}
	if c.callCount >= c.maxPerMin {
		c.mu.Unlock()
		return nil, fmt.Errorf("rate limit exceeded (%d calls/min)", c.maxPerMin)
	}
	c.callCount++
	c.mu.Unlock()

	body, err := json.Marshal(request{Theme: theme, Count: count})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("service call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(apiResp.Locations) == 0 {
		return nil, fmt.Errorf("empty batch")
	}

	requests := make([]placement.Request, 0, len(apiResp.Locations))
	for i, loc := range apiResp.Locations {
		t, err := placement.ParseLocationType(loc.Type)
		if err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
		requests = append(requests, placement.Request{
			Type:        t,
			Name:        loc.Name,
			Description: loc.Description,
		})
	}

	slog.Debug("generation batch received", "count", len(requests), "theme", theme)
	return requests, nil
}
