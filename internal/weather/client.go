// OpenWeatherMap client for the real-weather override. When configured,
// the season-boundary roll is replaced by whatever the sky is doing at
// the configured location.
package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client fetches weather data from OpenWeatherMap.
type Client struct {
	apiKey   string
	location string
	client   *http.Client

	mu          sync.Mutex
	cached      Kind
	hasCached   bool
	cachedAt    time.Time
	cacheTTL    time.Duration
	lastFailAt  time.Time
	failBackoff time.Duration
}

// NewClient creates a weather API client. Returns nil if apiKey is empty.
func NewClient(apiKey, location string) *Client {
	if apiKey == "" {
		return nil
	}
	if location == "" {
		location = "San Diego,US"
	}
	return &Client{
		apiKey:   apiKey,
		location: location,
		client:   &http.Client{Timeout: 10 * time.Second},
		cacheTTL: 5 * time.Minute,
	}
}

// Current returns the mapped current conditions, using cache when
// fresh. On failure it returns the last known value, or an error when
// nothing has ever been fetched.
func (c *Client) Current() (Kind, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasCached && time.Since(c.cachedAt) < c.cacheTTL {
		return c.cached, nil
	}

	// Backoff on repeated failures (up to 10 minutes).
	if c.failBackoff > 0 && time.Since(c.lastFailAt) < c.failBackoff {
		if c.hasCached {
			return c.cached, nil
		}
		return Sun, fmt.Errorf("weather API backoff (%s remaining)", c.failBackoff-time.Since(c.lastFailAt))
	}

	kind, err := c.fetchFromAPI()
	if err != nil {
		c.lastFailAt = time.Now()
		if c.failBackoff == 0 {
			c.failBackoff = 1 * time.Minute
		} else if c.failBackoff < 10*time.Minute {
			c.failBackoff *= 2
		}
		if c.hasCached {
			return c.cached, nil
		}
		return Sun, err
	}

	c.cached = kind
	c.hasCached = true
	c.cachedAt = time.Now()
	c.failBackoff = 0 // Reset backoff on success.
	return kind, nil
}

func (c *Client) fetchFromAPI() (Kind, error) {
	apiURL := fmt.Sprintf("https://api.openweathermap.org/data/2.5/weather?q=%s&appid=%s&units=metric",
		url.QueryEscape(c.location), c.apiKey)

	resp, err := c.client.Get(apiURL)
	if err != nil {
		return Sun, fmt.Errorf("weather API call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Sun, fmt.Errorf("read weather response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Sun, fmt.Errorf("weather API error %d: %s", resp.StatusCode, string(body))
	}

	var owm struct {
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}
	if err := json.Unmarshal(body, &owm); err != nil {
		return Sun, fmt.Errorf("parse weather: %w", err)
	}

	kind := Sun
	if len(owm.Weather) > 0 {
		switch strings.ToLower(owm.Weather[0].Main) {
		case "rain", "drizzle", "thunderstorm":
			kind = Rain
		case "snow":
			kind = Snow
		case "mist", "fog", "haze":
			kind = Fog
		}
	}

	slog.Debug("weather fetched", "kind", kind.String())
	return kind, nil
}
