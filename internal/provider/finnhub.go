package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"screener/internal/ratelimit"
	"screener/pkg/model"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubProvider implements the Provider interface for Finnhub API
type FinnhubProvider struct {
	apiKey    string
	baseURL   string
	fetch     *fetcher
	rateLimit int
	now       func() time.Time
}

// NewFinnhubProvider creates a new Finnhub provider
func NewFinnhubProvider(apiKey string, rateLimitPerMin int, opts ...Option) *FinnhubProvider {
	o := buildOptions(finnhubBaseURL, opts)
	return &FinnhubProvider{
		apiKey:  apiKey,
		baseURL: o.baseURL,
		fetch: &fetcher{
			name:    "finnhub",
			client:  o.client,
			limiter: ratelimit.NewLimiter("finnhub", rateLimitPerMin),
		},
		rateLimit: rateLimitPerMin,
		now:       time.Now,
	}
}

// Name returns the provider name
func (p *FinnhubProvider) Name() string {
	return "finnhub"
}

// IsAvailable checks if the provider has an API key
func (p *FinnhubProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// RateLimit returns the rate limit per minute
func (p *FinnhubProvider) RateLimit() int {
	return p.rateLimit
}

// finnhubCandle represents the Finnhub candle response
type finnhubCandle struct {
	C []float64 `json:"c"` // Close prices
	H []float64 `json:"h"` // High prices
	L []float64 `json:"l"` // Low prices
	O []float64 `json:"o"` // Open prices
	S string    `json:"s"` // Status
	T []int64   `json:"t"` // Timestamps
	V []float64 `json:"v"` // Volumes
}

// GetDailyCandles fetches daily OHLCV data
func (p *FinnhubProvider) GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	now := p.now()
	from := now.AddDate(0, 0, -days*2) // Buffer for weekends

	u := fmt.Sprintf("%s/stock/candle?symbol=%s&resolution=D&from=%d&to=%d&token=%s",
		p.baseURL, url.QueryEscape(symbol), from.Unix(), now.Unix(), url.QueryEscape(p.apiKey))

	var data finnhubCandle
	if err := p.fetch.getJSON(ctx, u, &data); err != nil {
		return nil, err
	}

	if data.S != "ok" || len(data.T) == 0 {
		return nil, p.fetch.noData(symbol)
	}

	loc := marketLocation()
	candles := make([]model.Candle, 0, len(data.T))
	for i := range data.T {
		if i >= len(data.O) || i >= len(data.H) || i >= len(data.L) || i >= len(data.C) {
			continue
		}

		var volume int64
		if i < len(data.V) {
			volume = int64(data.V[i])
		}

		candles = append(candles, model.Candle{
			Time:   time.Unix(data.T[i], 0).In(loc),
			Open:   data.O[i],
			High:   data.H[i],
			Low:    data.L[i],
			Close:  data.C[i],
			Volume: volume,
		})
	}

	return finishCandles(candles, days), nil
}
