package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"screener/internal/provider"
	"screener/internal/score"
	"screener/pkg/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu      sync.Mutex
	data    map[string][]model.Candle
	errs    map[string]error
	calls   []string
	onFetch func(symbol string)
}

func (f *fakeProvider) Name() string      { return "fake" }
func (f *fakeProvider) IsAvailable() bool { return true }
func (f *fakeProvider) RateLimit() int    { return 60 }

func (f *fakeProvider) GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()

	if f.onFetch != nil {
		f.onFetch(symbol)
	}
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	return f.data[symbol], nil
}

func candles(closes []float64) []model.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Candle, len(closes))
	for i, c := range closes {
		out[i] = model.Candle{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 100}
	}
	return out
}

func ramp(from, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + step*float64(i)
	}
	return out
}

func newTestScanner(p provider.Provider, delay time.Duration) *Scanner {
	return NewScanner(p, Config{
		Delay:       delay,
		HistoryDays: 120,
		Params:      score.DefaultParams(),
	}, zerolog.Nop(), nil)
}

func balanced() score.WeightConfig {
	return score.DefaultProfiles()["Balanced"]
}

func TestScan_StatusesAndRanking(t *testing.T) {
	p := &fakeProvider{
		data: map[string][]model.Candle{
			"FLAT": candles(ramp(50, 0, 60)),  // RSI oversold
			"UP":   candles(ramp(100, 1, 60)), // SMA bullish
			"NEW":  candles(ramp(100, 1, 20)), // too short
		},
		errs: map[string]error{
			"GONE": &provider.ProviderError{Provider: "fake", Err: errors.New("status 404")},
		},
	}

	var progress []int
	res, err := newTestScanner(p, 0).Scan(context.Background(), Request{
		Symbols: []string{"NEW", "GONE", "UP", "FLAT"},
		Profile: "Balanced",
		Weights: balanced(),
		Progress: func(scanned, total int, last model.ScoredSymbol) {
			assert.Equal(t, 4, total)
			progress = append(progress, scanned)
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "Balanced", res.Profile)
	assert.Equal(t, 4, res.TotalScanned)
	assert.False(t, res.Partial)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)
	assert.Equal(t, []string{"NEW", "GONE", "UP", "FLAT"}, p.calls)

	bySymbol := make(map[string]model.ScoredSymbol)
	for _, r := range res.Results {
		bySymbol[r.Symbol] = r
	}

	assert.Equal(t, model.StatusInsufficientData, bySymbol["NEW"].Status)
	assert.Equal(t, score.ReasonInsufficient, bySymbol["NEW"].Reason)

	assert.Equal(t, model.StatusError, bySymbol["GONE"].Status)
	assert.Equal(t, score.ReasonFetchError, bySymbol["GONE"].Reason)
	assert.Contains(t, bySymbol["GONE"].Err, "status 404")

	assert.Equal(t, model.StatusOK, bySymbol["UP"].Status)
	assert.Equal(t, 1.0, bySymbol["UP"].Components[score.SMA])
	assert.Equal(t, 1.0, bySymbol["FLAT"].Components[score.RSI])

	for i := 1; i < len(res.Results); i++ {
		assert.GreaterOrEqual(t, res.Results[i-1].Score, res.Results[i].Score)
	}
	// zero scores keep scan order
	last := res.Results[len(res.Results)-2:]
	assert.Equal(t, "NEW", last[0].Symbol)
	assert.Equal(t, "GONE", last[1].Symbol)
}

func TestScan_Max(t *testing.T) {
	p := &fakeProvider{data: map[string][]model.Candle{}}
	res, err := newTestScanner(p, 0).Scan(context.Background(), Request{
		Symbols: []string{"A", "B", "C", "D", "E", "F", "G"},
		Weights: balanced(),
		Max:     5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalScanned)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, p.calls)
}

func TestScan_CancelReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &fakeProvider{
		data: map[string][]model.Candle{
			"A": candles(ramp(100, 1, 60)),
			"B": candles(ramp(50, 0, 60)),
		},
	}
	p.onFetch = func(symbol string) {
		if symbol == "B" {
			cancel()
		}
	}

	res, err := newTestScanner(p, 0).Scan(ctx, Request{
		Symbols: []string{"A", "B", "C", "D"},
		Weights: balanced(),
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)

	assert.True(t, res.Partial)
	// B's fetch returned before the context was checked again
	assert.Equal(t, 2, res.TotalScanned)
	assert.Equal(t, []string{"A", "B"}, p.calls)
}

func TestScan_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeProvider{}
	res, err := newTestScanner(p, 0).Scan(ctx, Request{Symbols: []string{"A"}, Weights: balanced()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Partial)
	assert.Empty(t, res.Results)
	assert.Empty(t, p.calls)
}

func TestScan_Pacing(t *testing.T) {
	delay := 40 * time.Millisecond
	p := &fakeProvider{}

	start := time.Now()
	_, err := newTestScanner(p, delay).Scan(context.Background(), Request{
		Symbols: []string{"A", "B", "C"},
		Weights: balanced(),
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 2*delay-10*time.Millisecond)
}

func TestScan_Empty(t *testing.T) {
	res, err := newTestScanner(&fakeProvider{}, 0).Scan(context.Background(), Request{})
	require.NoError(t, err)
	assert.Zero(t, res.TotalScanned)
	assert.NotNil(t, res.Results)
}

func TestInspect(t *testing.T) {
	p := &fakeProvider{
		data: map[string][]model.Candle{"UP": candles(ramp(100, 1, 80))},
		errs: map[string]error{"GONE": errors.New("boom")},
	}
	s := newTestScanner(p, 0)
	s.now = func() time.Time { return time.Date(2024, 3, 20, 18, 0, 0, 0, time.UTC) }

	r, err := s.Inspect(context.Background(), "UP", 5, balanced())
	require.NoError(t, err)
	assert.Equal(t, "UP", r.Symbol)
	assert.Equal(t, 80, r.Bars)
	for _, w := range r.Warnings {
		assert.NotContains(t, w, "stale data")
	}

	s.now = func() time.Time { return time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC) }
	r, err = s.Inspect(context.Background(), "UP", 5, balanced())
	require.NoError(t, err)
	assert.Contains(t, r.Warnings, "stale data: last bar 2024-03-20, last session 2024-04-19")

	_, err = s.Inspect(context.Background(), "GONE", 5, balanced())
	assert.Error(t, err)
}

func TestLimit(t *testing.T) {
	syms := []string{"A", "B", "C"}
	assert.Equal(t, syms, Limit(syms, 0))
	assert.Equal(t, syms, Limit(syms, 5))
	assert.Equal(t, []string{"A", "B"}, Limit(syms, 2))
}
