package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"screener/internal/metrics"
	"screener/pkg/model"

	"github.com/rs/zerolog"
)

// Provider defines the interface for daily candle sources
type Provider interface {
	// Name returns the provider name
	Name() string

	// GetDailyCandles fetches daily OHLCV data for the specified number of
	// days, oldest candle first
	GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error)

	// IsAvailable checks if the provider is available (has valid API key)
	IsAvailable() bool

	// RateLimit returns the rate limit per minute
	RateLimit() int
}

// ErrNoProviders is returned when no provider is configured
var ErrNoProviders = errors.New("no data provider available")

// ProviderError represents a provider-specific error
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a ProviderError marked retryable
func IsRetryable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable
}

// FallbackProvider tries multiple providers in order
type FallbackProvider struct {
	providers []Provider
	metrics   *metrics.Recorder
	log       zerolog.Logger
}

// NewFallbackProvider creates a new fallback provider
func NewFallbackProvider(log zerolog.Logger, rec *metrics.Recorder, providers ...Provider) *FallbackProvider {
	// Filter to only available providers
	available := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.IsAvailable() {
			available = append(available, p)
		}
	}
	return &FallbackProvider{
		providers: available,
		metrics:   rec,
		log:       log.With().Str("component", "provider").Logger(),
	}
}

// Name returns the combined provider name
func (f *FallbackProvider) Name() string {
	return "fallback"
}

// GetDailyCandles tries each provider in order until one succeeds
func (f *FallbackProvider) GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	if len(f.providers) == 0 {
		return nil, ErrNoProviders
	}

	var lastErr error
	for _, p := range f.providers {
		start := time.Now()
		data, err := p.GetDailyCandles(ctx, symbol, days)
		f.metrics.RecordProviderRequest(p.Name(), err, time.Since(start))
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		f.log.Debug().Err(err).Str("provider", p.Name()).Str("symbol", symbol).
			Bool("retryable", IsRetryable(err)).Msg("provider failed, trying next")
		lastErr = err
	}
	return nil, fmt.Errorf("all providers failed for %s: %w", symbol, lastErr)
}

// IsAvailable returns true if any provider is available
func (f *FallbackProvider) IsAvailable() bool {
	return len(f.providers) > 0
}

// RateLimit returns the highest rate limit among providers
func (f *FallbackProvider) RateLimit() int {
	maxRate := 0
	for _, p := range f.providers {
		if p.RateLimit() > maxRate {
			maxRate = p.RateLimit()
		}
	}
	return maxRate
}

// Providers returns the list of underlying providers
func (f *FallbackProvider) Providers() []Provider {
	return f.providers
}
