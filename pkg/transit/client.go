package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/khonager/Trans/pkg/location"
	"github.com/rs/zerolog/log"
)

var baseURL = "https://v6.db.transport.rest"

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	userAgent       = "trans/1.0 (https://github.com/khonager/Trans)"
)

// ErrUnexpectedStatus is returned for any non-200 response.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Client interacts with the HAFAS DB API
type Client struct {
	httpClient *http.Client
	baseURL    string
	attempts   int
	retryWait  time.Duration
	cache      *LookupCache
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another transport.rest instance.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithAttempts sets how many times a transient failure is tried in total.
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithRetryWait sets the initial wait between attempts.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) {
		c.retryWait = d
	}
}

// WithCache enables response caching for station lookups.
func WithCache(cache *LookupCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		attempts:   defaultAttempts,
		retryWait:  time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// transientError marks failures worth another attempt.
type transientError struct {
	status int
}

func (e *transientError) Error() string {
	return fmt.Sprintf("transient status code: %d", e.status)
}

// getWithRetries performs a GET and retries 502/503/504 responses and transport
// errors with exponential backoff. Any other non-200 status fails immediately.
func (c *Client) getWithRetries(ctx context.Context, reqURL string) ([]byte, error) {
	var body []byte
	attempt := 0

	operation := func() error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		// Public APIs often block default Go user agents
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return &transientError{status: resp.StatusCode}
		default:
			return backoff.Permanent(fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryWait
	policy.MaxElapsedTime = 0
	if c.retryWait <= 0 {
		policy.InitialInterval = time.Millisecond
	}

	var retries backoff.BackOff = backoff.WithMaxRetries(policy, uint64(c.attempts-1))
	retries = backoff.WithContext(retries, ctx)

	err := backoff.RetryNotify(operation, retries, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("url", reqURL).Int("attempt", attempt).Dur("wait", wait).Msg("Transit API congested, retrying")
	})
	if err != nil {
		var transient *transientError
		if errors.As(err, &transient) {
			return nil, fmt.Errorf("failed after %d attempts: %w: %d", attempt, ErrUnexpectedStatus, transient.status)
		}
		return nil, fmt.Errorf("failed after %d attempts: %w", attempt, err)
	}

	return body, nil
}

// getCached serves reqURL from the lookup cache when possible.
func (c *Client) getCached(ctx context.Context, reqURL string) ([]byte, error) {
	if body, ok := c.cache.Get(ctx, reqURL); ok {
		log.Debug().Str("url", reqURL).Msg("Lookup served from cache")
		return body, nil
	}

	body, err := c.getWithRetries(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, reqURL, body); err != nil {
		log.Debug().Err(err).Str("url", reqURL).Msg("Failed to cache lookup response")
	}
	return body, nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FetchLocations searches for transit stops matching a text query. With a
// bias the API ranks results near that position first.
func (c *Client) FetchLocations(ctx context.Context, query string, results int, bias *location.Position) ([]Station, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("results", strconv.Itoa(results))
	if bias != nil {
		params.Set("latitude", formatCoordinate(bias.Latitude))
		params.Set("longitude", formatCoordinate(bias.Longitude))
	}
	reqURL := fmt.Sprintf("%s/locations?%s", c.baseURL, params.Encode())

	body, err := c.getCached(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}

	var locations []Station
	if err := json.Unmarshal(body, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations JSON: %w", err)
	}

	// Filter down to just actual stations/stops
	var filtered []Station
	for _, l := range locations {
		if l.Type == "station" || l.Type == "stop" {
			filtered = append(filtered, l)
		}
	}

	return filtered, nil
}

// FetchNearby returns the stops closest to pos.
func (c *Client) FetchNearby(ctx context.Context, pos location.Position, results int) ([]Station, error) {
	params := url.Values{}
	params.Set("latitude", formatCoordinate(pos.Latitude))
	params.Set("longitude", formatCoordinate(pos.Longitude))
	params.Set("results", strconv.Itoa(results))
	reqURL := fmt.Sprintf("%s/stops/nearby?%s", c.baseURL, params.Encode())

	body, err := c.getCached(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nearby stops: %w", err)
	}

	var stops []Station
	if err := json.Unmarshal(body, &stops); err != nil {
		return nil, fmt.Errorf("failed to decode nearby stops JSON: %w", err)
	}

	if len(stops) > results {
		stops = stops[:results]
	}
	return stops, nil
}

// FetchJourneys plans a trip from a starting station ID to a destination ID
func (c *Client) FetchJourneys(ctx context.Context, fromID string, toID string, results int) ([]Journey, error) {
	params := url.Values{}
	params.Set("from", fromID)
	params.Set("to", toID)
	params.Set("results", strconv.Itoa(results))
	reqURL := fmt.Sprintf("%s/journeys?%s", c.baseURL, params.Encode())

	body, err := c.getWithRetries(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch journeys: %w", err)
	}

	var journeyResp JourneyResponse
	if err := json.Unmarshal(body, &journeyResp); err != nil {
		return nil, fmt.Errorf("failed to decode journey JSON: %w", err)
	}

	return journeyResp.Journeys, nil
}
