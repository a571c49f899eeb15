package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"screener/internal/ratelimit"
	"screener/pkg/model"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Option configures an HTTP provider
type Option func(*options)

type options struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// WithBaseURL overrides the API endpoint
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

func buildOptions(baseURL string, opts []Option) options {
	o := options{baseURL: baseURL, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	return o
}

// fetcher holds the request path shared by the HTTP providers
type fetcher struct {
	name    string
	client  *http.Client
	limiter *ratelimit.Limiter
}

// getJSON waits for the limiter, issues a GET and decodes the body into out
func (f *fetcher) getJSON(ctx context.Context, url string, out any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return &ProviderError{Provider: f.name, Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &ProviderError{Provider: f.name, Err: fmt.Errorf("rate limited"), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{Provider: f.name, Err: fmt.Errorf("status %d", resp.StatusCode), Retryable: resp.StatusCode >= 500}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Provider: f.name, Err: fmt.Errorf("decoding response: %w", err), Retryable: false}
	}
	return nil
}

func (f *fetcher) noData(symbol string) error {
	return &ProviderError{Provider: f.name, Err: fmt.Errorf("no data available for %s", symbol), Retryable: false}
}

// marketLocation returns the exchange timezone, UTC if tzdata is missing
func marketLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}

// finishCandles sorts oldest first and keeps the last days candles
func finishCandles(candles []model.Candle, days int) []model.Candle {
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
	if days > 0 && len(candles) > days {
		candles = candles[len(candles)-days:]
	}
	return candles
}
