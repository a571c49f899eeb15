package analyzer

import (
	"math"
	"testing"
	"time"

	"screener/internal/score"
	"screener/internal/zigzag"
	"screener/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waveCandles(n int) []model.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Candle, n)
	for i := range out {
		x := float64(i)
		c := 100 + 10*math.Sin(x/5) + 0.3*x
		out[i] = model.Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1.5,
			Low:    c - 1.5,
			Close:  c,
			Volume: 1000 + int64(i),
		}
	}
	return out
}

func TestAnalyze(t *testing.T) {
	a := NewTechnicalAnalyzer(score.DefaultParams())
	candles := waveCandles(150)
	weights := score.DefaultProfiles()["Balanced"]

	r, err := a.Analyze("AAPL", candles, 5, weights)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", r.Symbol)
	assert.Equal(t, 150, r.Bars)
	assert.Equal(t, candles[149].Close, r.Close)
	assert.True(t, r.AsOf.Equal(candles[149].Time))
	assert.Empty(t, r.Warnings)

	for _, name := range []string{"sma10", "sma50", "rsi14", "ema12", "ema26", "macd", "macd_signal", "macd_hist", "stoch_k", "stoch_d", "qqe_approx", "qqe_fast", "qqe_slow"} {
		s, ok := r.Series[name]
		require.True(t, ok, name)
		last, _ := s.Last()
		assert.Equal(t, last, r.Latest[name], name)
	}

	assert.Contains(t, []string{"oversold", "neutral", "overbought"}, r.RSISignal)
	assert.Contains(t, []string{"uptrend", "downtrend", "neutral"}, r.TrendSignal)
	assert.Equal(t, "normal", r.VolumeSignal)

	assert.Equal(t, zigzag.MethodThreshold, r.ZigZag.Method)
	assert.NotEmpty(t, r.ZigZag.Pivots)
	assert.NotEmpty(t, r.QQESignals)

	var sum float64
	for _, c := range r.Score.Components {
		sum += c.Score
	}
	assert.InDelta(t, sum, r.Weighted, 1e-9)
}

func TestAnalyze_ShortHistory(t *testing.T) {
	a := NewTechnicalAnalyzer(score.DefaultParams())

	r, err := a.Analyze("NEW", waveCandles(30), 5, score.WeightConfig{})
	require.NoError(t, err)

	assert.NotEmpty(t, r.Warnings)
	assert.NotContains(t, r.Series, "sma50")
	assert.Contains(t, r.Series, "sma10")
	assert.Contains(t, r.Series, "rsi14")
	assert.Zero(t, r.Weighted)

	sma, ok := r.Score.Component(score.SMA)
	require.True(t, ok)
	assert.False(t, sma.Available)
}

func TestAnalyze_Empty(t *testing.T) {
	a := NewTechnicalAnalyzer(score.DefaultParams())
	_, err := a.Analyze("NONE", nil, 5, nil)
	assert.Error(t, err)
}

func TestAnalyze_BadThreshold(t *testing.T) {
	a := NewTechnicalAnalyzer(score.DefaultParams())
	_, err := a.Analyze("AAPL", waveCandles(60), 0, nil)
	assert.ErrorIs(t, err, zigzag.ErrInvalidThreshold)
}

func TestSignals(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"rsi oversold", getRSISignal(25), "oversold"},
		{"rsi overbought", getRSISignal(75), "overbought"},
		{"rsi neutral", getRSISignal(50), "neutral"},
		{"trend up", getTrendSignal(2, 3), "uptrend"},
		{"trend down", getTrendSignal(-2, -3), "downtrend"},
		{"trend mixed", getTrendSignal(2, -3), "neutral"},
		{"volume low", getVolumeSignal(0.5), "low"},
		{"volume high", getVolumeSignal(2), "high"},
		{"volume normal", getVolumeSignal(1), "normal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestCalculateVolumeRatio(t *testing.T) {
	candles := make([]model.Candle, 20)
	for i := range candles {
		candles[i].Volume = 100
	}
	candles[19].Volume = 300

	assert.Equal(t, 3.0, calculateVolumeRatio(candles, 20))
	assert.Equal(t, 1.0, calculateVolumeRatio(candles[:5], 20))
}
