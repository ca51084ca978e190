// Package news fetches headlines for a resolved place and degrades to
// synthetic placeholder articles when the upstream is unavailable.
package news

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

	"golang.org/x/time/rate"
)

// ErrUnavailable covers HTTP errors, quota rejections, and network
// failures from the news upstream.
var ErrUnavailable = errors.New("news unavailable")

// Article is one headline shown in the news panel.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// apiResponse mirrors the upstream article list shape.
type apiResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Image       string `json:"image"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Client talks to the news API.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// NewClient creates a news API client. A zero rps disables pacing.
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

// Search fetches up to max articles matching a free-text query. The search
// scope is global, not country-restricted.
func (c *Client) Search(ctx context.Context, query string, max int) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("max", fmt.Sprintf("%d", max))
	params.Set("token", c.APIKey)
	return c.fetch(ctx, c.BaseURL+"/search?"+params.Encode())
}

// TopHeadlines fetches up to max headlines for a two-letter country code.
// Kept for country-scoped lookups; the dashboard itself uses Search.
func (c *Client) TopHeadlines(ctx context.Context, countryCode string, max int) ([]Article, error) {
	params := url.Values{}
	params.Set("country", strings.ToLower(countryCode))
	params.Set("max", fmt.Sprintf("%d", max))
	params.Set("token", c.APIKey)
	return c.fetch(ctx, c.BaseURL+"/top-headlines?"+params.Encode())
}

func (c *Client) fetch(ctx context.Context, requestURL string) ([]Article, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d %s", ErrUnavailable, resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var ar apiResponse
	if err := json.Unmarshal(data, &ar); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	articles := make([]Article, 0, len(ar.Articles))
	for _, a := range ar.Articles {
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, Article{
			Title:       a.Title,
			URL:         a.URL,
			SourceName:  a.Source.Name,
			ImageURL:    a.Image,
			PublishedAt: published,
		})
	}
	return articles, nil
}
