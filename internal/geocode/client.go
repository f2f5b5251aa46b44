package geocode

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

	"go.uber.org/zap"

	"github.com/community-resources/backend/internal/metrics"
	"github.com/community-resources/backend/pkg/circuitbreaker"
	"github.com/community-resources/backend/pkg/config"
	"github.com/community-resources/backend/pkg/logger"
	"github.com/community-resources/backend/pkg/retry"
	"github.com/community-resources/backend/pkg/utils"
)

// ErrNoMatch means the upstream geocoder returned no candidates.
var ErrNoMatch = errors.New("address could not be geocoded")

// Result is a resolved reference point for distance filtering.
type Result struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

// Cache is the optional geocode cache. May be nil.
type Cache interface {
	GetGeocode(ctx context.Context, addressHash string, result interface{}) (bool, error)
	SetGeocode(ctx context.Context, addressHash string, result interface{}, ttl time.Duration) error
}

// Client proxies the upstream geocoding API. Lookups are idempotent, so
// unlike the completion path they get retries and a circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      Cache
	cacheTTL   time.Duration
	cb         *circuitbreaker.CircuitBreaker
	retryCfg   retry.Config
}

func NewClient(cfg config.GeocodingConfig, cache Cache) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cacheTTL := time.Duration(cfg.CacheTTLMin) * time.Minute
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}

	cb := circuitbreaker.NewCircuitBreaker("geocode", circuitbreaker.Config{
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryCfg := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   250 * time.Millisecond,
		MaxDelay:       2 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		cache:      cache,
		cacheTTL:   cacheTTL,
		cb:         cb,
		retryCfg:   retryCfg,
	}
}

// Geocode resolves a street address to coordinates, consulting the
// cache first. Cache failures are logged and ignored.
func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	addressHash := utils.NormalizedHash(address)

	if c.cache != nil {
		var cached Result
		hit, err := c.cache.GetGeocode(ctx, addressHash, &cached)
		if err != nil {
			logger.Warn("Geocode cache read failed", zap.Error(err))
		} else if hit {
			metrics.GeocodeCache.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		metrics.GeocodeCache.WithLabelValues("miss").Inc()
	}

	var result *Result
	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryCfg, func() error {
			r, err := c.lookup(ctx, address)
			if errors.Is(err, ErrNoMatch) {
				// An empty candidate list is a definitive answer,
				// not a transient failure. Skip the retry loop.
				result = nil
				return nil
			}
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})
	if err != nil {
		metrics.GeocodeLookups.WithLabelValues("error").Inc()
		return nil, err
	}
	if result == nil {
		metrics.GeocodeLookups.WithLabelValues("no_match").Inc()
		return nil, ErrNoMatch
	}

	metrics.GeocodeLookups.WithLabelValues("success").Inc()

	if c.cache != nil {
		if err := c.cache.SetGeocode(ctx, addressHash, result, c.cacheTTL); err != nil {
			logger.Warn("Geocode cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

type upstreamCandidate struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *Client) lookup(ctx context.Context, address string) (*Result, error) {
	params := url.Values{}
	params.Set("q", address)
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocoder returned status %d: %s", resp.StatusCode, string(body))
	}

	var candidates []upstreamCandidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(candidates[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocode response: %w", err)
	}
	lng, err := strconv.ParseFloat(candidates[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocode response: %w", err)
	}

	return &Result{Lat: lat, Lng: lng, FormattedAddress: candidates[0].DisplayName}, nil
}
