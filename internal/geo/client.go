// Package geo provides place-name suggestions for the search box.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// MinQueryLen is the shortest trimmed query that triggers a suggestions
// lookup. Anything shorter is suppressed without a request.
const MinQueryLen = 3

// MaxSuggestions caps how many candidates one lookup returns.
const MaxSuggestions = 5

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Client talks to the geocoding suggestions endpoint.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// NewClient creates a geocoding client. A zero rps disables pacing.
func NewClient(apiKey, baseURL string, rps float64, burst int) *Client {
	c := &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	if rps > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return c
}

// Configured reports whether the client has an API key to call with.
func (c *Client) Configured() bool {
	return c != nil && c.APIKey != ""
}

// Suggest returns up to MaxSuggestions candidate places for a partial
// query. Queries shorter than MinQueryLen return nil without a request.
func (c *Client) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLen {
		return nil, nil
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", MaxSuggestions))
	params.Set("appid", c.APIKey)
	requestURL := c.BaseURL + "/direct?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, err
	}
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions, nil
}
