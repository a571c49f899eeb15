package provider

import (
	"context"

	"screener/internal/metrics"
	"screener/pkg/model"

	"github.com/rs/zerolog"
)

// CachingProvider wraps a Provider with a candle cache for GetDailyCandles.
// Cache failures are logged and fall through to the wrapped provider.
type CachingProvider struct {
	inner   Provider
	cache   Cache
	maxDays int
	metrics *metrics.Recorder
	log     zerolog.Logger
}

// NewCachingProvider creates a caching wrapper. maxDays is the number of days
// to always fetch so that later calls for fewer days hit the cache.
func NewCachingProvider(inner Provider, cache Cache, maxDays int, log zerolog.Logger, rec *metrics.Recorder) *CachingProvider {
	return &CachingProvider{
		inner:   inner,
		cache:   cache,
		maxDays: maxDays,
		metrics: rec,
		log:     log.With().Str("component", "cache").Str("backend", cache.Name()).Logger(),
	}
}

func (p *CachingProvider) Name() string      { return p.inner.Name() }
func (p *CachingProvider) IsAvailable() bool { return p.inner.IsAvailable() }
func (p *CachingProvider) RateLimit() int    { return p.inner.RateLimit() }

func (p *CachingProvider) GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	cached, ok, err := p.cache.Get(ctx, symbol)
	if err != nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Msg("cache read failed")
	}
	p.metrics.RecordCacheLookup(p.cache.Name(), ok)
	if ok {
		return lastDays(cached, days), nil
	}

	fetchDays := p.maxDays
	if days > fetchDays {
		fetchDays = days
	}

	candles, err := p.inner.GetDailyCandles(ctx, symbol, fetchDays)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, symbol, candles); err != nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Msg("cache write failed")
	}

	return lastDays(candles, days), nil
}

func lastDays(candles []model.Candle, days int) []model.Candle {
	if days > 0 && len(candles) > days {
		return candles[len(candles)-days:]
	}
	return candles
}
