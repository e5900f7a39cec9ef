package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reclamo-io/platform/pkg/common/logger"
)

type SentimentConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// SentimentClient scores complaint text against an APILayer-style sentiment
// endpoint. Every failure path collapses to SentimentUnknown; the caller
// never sees an error.
type SentimentClient struct {
	cfg        SentimentConfig
	httpClient *http.Client
}

func NewSentimentClient(cfg SentimentConfig) *SentimentClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SentimentClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *SentimentClient) ClassifySentiment(ctx context.Context, text string) (Sentiment, Outcome) {
	if c.cfg.APIKey == "" {
		return SentimentUnknown, fallback("no credential")
	}

	payload, _ := json.Marshal(map[string]string{"text": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewBuffer(payload))
	if err != nil {
		return SentimentUnknown, fallback(err.Error())
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.WithError(err).Warn("sentiment call failed")
		return SentimentUnknown, fallback("call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SentimentUnknown, fallback(fmt.Sprintf("status %d", resp.StatusCode))
	}

	var result struct {
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SentimentUnknown, fallback("unparsable response")
	}

	switch {
	case result.Score > 0.3:
		return SentimentPositive, ok()
	case result.Score < -0.3:
		return SentimentNegative, ok()
	default:
		return SentimentNeutral, ok()
	}
}
