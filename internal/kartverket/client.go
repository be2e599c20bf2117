// Package kartverket is a client for the national mapping authority's
// elevation endpoint. The pipeline only depends on the TerrainProvider
// interface, so tests and other deployments can substitute their own source.
package kartverket

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

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/eiendomsmuligheter/propmodel/internal/terrain"
)

// Provider errors.
var (
	ErrUnavailable = errors.New("terrain provider unavailable")
	ErrBadRequest  = errors.New("terrain provider rejected request")
)

// Default client settings.
const (
	DefaultBaseURL = "https://www.kartverket.no/api/"
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 3

	userAgent = "propmodel/1.0"
)

// Config holds client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Retries uint

	// InitialBackoff is the first retry delay; it doubles per attempt.
	// Zero uses the backoff package default.
	InitialBackoff time.Duration
}

// Client fetches elevation samples over HTTP with bounded retry and
// exponential backoff.
type Client struct {
	baseURL        string
	apiKey         string
	retries        uint
	initialBackoff time.Duration
	http           *http.Client
	log            *zap.Logger
}

// NewClient builds a client, filling unset config fields with defaults.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries == 0 {
		cfg.Retries = DefaultRetries
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		retries:        cfg.Retries,
		initialBackoff: cfg.InitialBackoff,
		http:           &http.Client{Timeout: cfg.Timeout},
		log:            log,
	}
}

// terrainResponse is the wire shape of the elevation endpoint.
type terrainResponse struct {
	Points []terrain.ElevationSample `json:"points"`
}

// GetTerrain returns elevation samples within radius meters of the given
// coordinate. An empty result means no elevation data is available for the
// area and is not an error. Transient failures are retried with exponential
// backoff; client-side rejections (4xx) are not.
func (c *Client) GetTerrain(ctx context.Context, lat, lon, radius float64) ([]terrain.ElevationSample, error) {
	endpoint, err := url.JoinPath(c.baseURL, "hoydedata", "terreng")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	query.Set("format", "json")
	requestURL := endpoint + "?" + query.Encode()

	policy := backoff.NewExponentialBackOff()
	if c.initialBackoff > 0 {
		policy.InitialInterval = c.initialBackoff
	}

	attempt := 0
	samples, err := backoff.Retry(ctx, func() ([]terrain.ElevationSample, error) {
		attempt++
		points, err := c.fetch(ctx, requestURL)
		if err != nil {
			c.log.Warn("terrain fetch attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return points, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(c.retries+1))
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// fetch performs a single request. Server and transport failures are
// retryable; 4xx responses are permanent.
func (c *Client) fetch(ctx context.Context, requestURL string) ([]terrain.ElevationSample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrBadRequest, err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, backoff.Permanent(fmt.Errorf("%w: status %d", ErrBadRequest, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}

	var parsed terrainResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: decoding body: %v", ErrBadRequest, err))
	}
	return parsed.Points, nil
}
