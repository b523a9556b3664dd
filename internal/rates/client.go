// Package rates fetches spot exchange rates for the manual payment channel.
// A failed or malformed lookup is a normal code path here, not an error: the
// caller always gets a usable rate or an explicit unavailable signal.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
)

// ErrUnavailable is returned when no trustworthy rate could be fetched.
// Callers collapse it to the fallback constant; it never reaches a user.
var ErrUnavailable = errors.New("rate source unavailable")

// Client fetches spot rates over HTTP with a tight timeout. The timeout is
// bounded so the workflow's fallback triggers within a user-tolerable delay.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a new rate-source client.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		url:     url,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

// ratePayload is the subset of the rate-source response the core reads.
type ratePayload struct {
	Rates map[string]float64 `json:"rates"`
}

// Spot fetches the base→target rate. It retries once on transient failure and
// returns ErrUnavailable for anything it cannot trust: unreachable source,
// timeout, malformed payload, missing pair, or a non-positive rate.
func (c *Client) Spot(ctx context.Context, base, target string) (float64, error) {
	if c.url == "" {
		return 0, ErrUnavailable
	}

	var rate float64
	err := retry.Do(
		func() error {
			var attemptErr error
			rate, attemptErr = c.fetch(ctx, base, target)
			return attemptErr
		},
		retry.Attempts(2),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return 0, ErrUnavailable
	}

	return rate, nil
}

func (c *Client) fetch(ctx context.Context, base, target string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate source returned status %d", resp.StatusCode)
	}

	var payload ratePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}

	rate, ok := payload.Rates[target]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("rate source payload missing %s/%s", base, target)
	}

	return rate, nil
}
