package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reclamo-io/platform/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

type GeoConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// GeoClient resolves an IP address to a "city, country" string using an
// ip-api style lookup. Unlike the other adapters its fallback is absence:
// a nil result, never an empty string or placeholder text. Successful
// lookups are cached in Redis when a cache client is supplied.
type GeoClient struct {
	cfg        GeoConfig
	httpClient *http.Client
	cache      *redis.Client
}

func NewGeoClient(cfg GeoConfig, cache *redis.Client) *GeoClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &GeoClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
	}
}

func (c *GeoClient) ResolveLocation(ctx context.Context, ip string) (*string, Outcome) {
	cacheKey := "geo:" + ip

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			return &cached, ok()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/json/"+ip, nil)
	if err != nil {
		return nil, fallback(err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.WithError(err).Warn("geolocation lookup failed")
		return nil, fallback("call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fallback(fmt.Sprintf("status %d", resp.StatusCode))
	}

	var result struct {
		Status  string `json:"status"`
		City    string `json:"city"`
		Country string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fallback("unparsable response")
	}

	if result.Status != "success" {
		return nil, fallback("lookup status " + result.Status)
	}

	location := fmt.Sprintf("%s, %s", result.City, result.Country)

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, location, c.cfg.CacheTTL).Err(); err != nil {
			logger.Log.WithError(err).Debug("geolocation cache write failed")
		}
	}

	return &location, ok()
}
