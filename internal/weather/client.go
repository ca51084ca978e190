package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// ErrLocationNotFound is returned when a conditions lookup cannot resolve
// the requested place (bad query, unknown coordinates, or upstream failure).
var ErrLocationNotFound = errors.New("location not found")

// ErrForecastUnavailable is returned when the forecast feed cannot be read.
var ErrForecastUnavailable = errors.New("forecast unavailable")

// Client talks to the conditions and forecast endpoints.
type Client struct {
	APIKey     string
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// NewClient creates a weather API client. rps and burst pace outbound
// calls; a zero rps disables pacing.
func NewClient(apiKey, baseURL string, rps float64, burst int) *Client {
	userAgent := os.Getenv("CITYSCOPE_USER_AGENT")
	if userAgent == "" {
		userAgent = "cityscope/1.0"
	}

	c := &Client{
		APIKey:    apiKey,
		BaseURL:   baseURL,
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	if rps > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return c
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API error: %d %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// ConditionsResponse is the slice of the conditions endpoint we read.
type ConditionsResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// CurrentByName fetches current conditions for a free-text place query.
// The response carries coordinates and the canonical name, so one call
// serves both geocoding and conditions.
func (c *Client) CurrentByName(ctx context.Context, query string) (*ConditionsResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	return c.current(ctx, params)
}

// CurrentByCoords fetches current conditions for a coordinate pair.
func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (*ConditionsResponse, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	return c.current(ctx, params)
}

func (c *Client) current(ctx context.Context, params url.Values) (*ConditionsResponse, error) {
	params.Set("appid", c.APIKey)
	params.Set("units", "metric")
	requestURL := c.BaseURL + "/weather?" + params.Encode()

	data, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationNotFound, err)
	}

	var cr ConditionsResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationNotFound, err)
	}
	if len(cr.Weather) == 0 {
		return nil, ErrLocationNotFound
	}
	return &cr, nil
}

// ForecastResponse is the slice of the 3-hour forecast feed we read.
type ForecastResponse struct {
	List []ForecastSample `json:"list"`
}

// ForecastSample is one 3-hour step in the raw forecast series.
type ForecastSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Forecast fetches the raw 3-hour forecast series for a coordinate pair.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*ForecastResponse, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("appid", c.APIKey)
	params.Set("units", "metric")
	requestURL := c.BaseURL + "/forecast?" + params.Encode()

	data, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}

	var fr ForecastResponse
	if err := json.Unmarshal(data, &fr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}
	return &fr, nil
}
