// Package geo provides a best-effort location signal. It is advisory only:
// it influences which payment channel is emphasized, never which channels
// are offered, so every failure mode resolves to Unknown.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	internalredis "academy/internal/redis"
)

// Unknown is returned when no location signal is available.
const Unknown = ""

// Locator resolves an approximate country for a learner.
type Locator interface {
	// Country returns an ISO country code, or Unknown. Never returns an error.
	Country(ctx context.Context, learnerID string) string
}

// Client looks a learner's country up over HTTP and caches the answer.
type Client struct {
	url      string
	cache    *internalredis.CacheStore
	cacheTTL time.Duration
	http     *http.Client
}

// NewClient creates a new geolocation client. The cache may be nil.
func NewClient(url string, timeout time.Duration, cache *internalredis.CacheStore, cacheTTL time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		url:      url,
		cache:    cache,
		cacheTTL: cacheTTL,
		http:     &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	CountryCode string `json:"country_code"`
}

// Country resolves the learner's approximate country code.
func (c *Client) Country(ctx context.Context, learnerID string) string {
	if learnerID == "" {
		return Unknown
	}

	if c.cache != nil {
		if code, err := c.cache.GetCountry(ctx, learnerID); err == nil && code != "" {
			return code
		}
	}

	code := c.lookup(ctx, learnerID)
	if code != Unknown && c.cache != nil {
		_ = c.cache.SetCountry(ctx, learnerID, code, c.cacheTTL)
	}

	return code
}

func (c *Client) lookup(ctx context.Context, learnerID string) string {
	if c.url == "" {
		return Unknown
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/location/%s", c.url, learnerID), nil)
	if err != nil {
		return Unknown
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Unknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unknown
	}

	var parsed lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Unknown
	}

	return parsed.CountryCode
}
