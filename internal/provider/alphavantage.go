package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"screener/internal/ratelimit"
	"screener/pkg/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// compact output covers the last 100 trading days
const alphaVantageCompactDays = 100

// AlphaVantageProvider implements the Provider interface for Alpha Vantage API
type AlphaVantageProvider struct {
	apiKey    string
	baseURL   string
	fetch     *fetcher
	rateLimit int
}

// NewAlphaVantageProvider creates a new Alpha Vantage provider
func NewAlphaVantageProvider(apiKey string, rateLimitPerMin int, opts ...Option) *AlphaVantageProvider {
	o := buildOptions(alphaVantageBaseURL, opts)
	return &AlphaVantageProvider{
		apiKey:  apiKey,
		baseURL: o.baseURL,
		fetch: &fetcher{
			name:    "alphavantage",
			client:  o.client,
			limiter: ratelimit.NewLimiter("alphavantage", rateLimitPerMin),
		},
		rateLimit: rateLimitPerMin,
	}
}

// Name returns the provider name
func (p *AlphaVantageProvider) Name() string {
	return "alphavantage"
}

// IsAvailable checks if the provider has an API key
func (p *AlphaVantageProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// RateLimit returns the rate limit per minute
func (p *AlphaVantageProvider) RateLimit() int {
	return p.rateLimit
}

// alphaVantageDaily represents the daily adjusted response
type alphaVantageDaily struct {
	MetaData    map[string]string            `json:"Meta Data"`
	TimeSeries  map[string]map[string]string `json:"Time Series (Daily)"`
	Note        string                       `json:"Note"` // Rate limit message
	Information string                       `json:"Information"`
	Error       string                       `json:"Error Message"`
}

// GetDailyCandles fetches TIME_SERIES_DAILY_ADJUSTED data
func (p *AlphaVantageProvider) GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	outputSize := "compact"
	if days > alphaVantageCompactDays {
		outputSize = "full"
	}

	u := fmt.Sprintf("%s?function=TIME_SERIES_DAILY_ADJUSTED&symbol=%s&outputsize=%s&apikey=%s",
		p.baseURL, url.QueryEscape(symbol), outputSize, url.QueryEscape(p.apiKey))

	var data alphaVantageDaily
	if err := p.fetch.getJSON(ctx, u, &data); err != nil {
		return nil, err
	}

	if data.Note != "" {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("rate limited: %s", data.Note), Retryable: true}
	}
	if data.Error != "" {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("%s", data.Error), Retryable: false}
	}
	if data.Information != "" {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("%s", data.Information), Retryable: false}
	}
	if len(data.TimeSeries) == 0 {
		return nil, p.fetch.noData(symbol)
	}

	return finishCandles(parseDailySeries(data.TimeSeries), days), nil
}

// parseDailySeries converts the date-keyed map to candles. Map order is
// random; callers sort.
func parseDailySeries(series map[string]map[string]string) []model.Candle {
	loc := marketLocation()

	candles := make([]model.Candle, 0, len(series))
	for dateStr, values := range series {
		t, err := time.ParseInLocation("2006-01-02", dateStr, loc)
		if err != nil {
			continue
		}

		closePrice, err := strconv.ParseFloat(values["4. close"], 64)
		if err != nil {
			continue
		}
		open, _ := strconv.ParseFloat(values["1. open"], 64)
		high, _ := strconv.ParseFloat(values["2. high"], 64)
		low, _ := strconv.ParseFloat(values["3. low"], 64)

		// adjusted responses put volume at 6, plain daily at 5
		volStr, ok := values["6. volume"]
		if !ok {
			volStr = values["5. volume"]
		}
		volume, _ := strconv.ParseInt(volStr, 10, 64)

		candles = append(candles, model.Candle{
			Time:   t,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}
	return candles
}
