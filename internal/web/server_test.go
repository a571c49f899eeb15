package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"screener/internal/analyzer"
	"screener/internal/config"
	"screener/internal/market"
	"screener/internal/metrics"
	"screener/internal/provider"
	"screener/internal/scanner"
	"screener/pkg/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu    sync.Mutex
	data  map[string][]model.Candle
	errs  map[string]error
	calls []string
}

func (f *fakeProvider) Name() string      { return "fake" }
func (f *fakeProvider) IsAvailable() bool { return true }
func (f *fakeProvider) RateLimit() int    { return 60 }

func (f *fakeProvider) GetDailyCandles(_ context.Context, symbol string, _ int) ([]model.Candle, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	return f.data[symbol], nil
}

func candles(from, step float64, n int) []model.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Candle, n)
	for i := range out {
		c := from + step*float64(i)
		out[i] = model.Candle{Time: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return out
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, p provider.Provider) (*Server, *prometheus.Registry) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Scanner.Delay = 0

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	sc := scanner.NewScanner(p, scanner.Config{
		Delay:       0,
		HistoryDays: cfg.Scanner.HistoryDays,
		Params:      cfg.ScoreParams(),
	}, zerolog.Nop(), rec)

	return NewServer(cfg, sc, zerolog.Nop(), rec, reg), reg
}

func get(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" || json.Valid(rec.Body.Bytes()) {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &fakeProvider{})
	rec, env := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestMarket(t *testing.T) {
	s, _ := newTestServer(t, &fakeProvider{})
	rec, env := get(t, s, "/api/market")
	require.Equal(t, http.StatusOK, rec.Code)

	var st market.Status
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Contains(t, []string{"open", "pre-market", "after-hours", "weekend", "holiday"}, st.Reason)
}

func TestProfiles(t *testing.T) {
	s, _ := newTestServer(t, &fakeProvider{})
	rec, env := get(t, s, "/api/profiles")
	require.Equal(t, http.StatusOK, rec.Code)

	var profiles []ProfileInfo
	require.NoError(t, json.Unmarshal(env.Data, &profiles))
	require.Len(t, profiles, 3)
	assert.Equal(t, "Aggressive", profiles[0].Name)
	assert.Equal(t, "Balanced", profiles[1].Name)
	assert.True(t, profiles[1].Default)
	assert.False(t, profiles[0].Default)
	assert.Equal(t, 1.4, profiles[0].Weights["macd"])
}

func TestScan(t *testing.T) {
	p := &fakeProvider{data: map[string][]model.Candle{
		"UP":   candles(100, 1, 60),
		"FLAT": candles(50, 0, 60),
	}}
	s, _ := newTestServer(t, p)

	rec, env := get(t, s, "/api/scan?symbols=up,nasdaq:flat;up&profile=Balanced")
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.ScanResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "Balanced", result.Profile)
	assert.Equal(t, 2, result.TotalScanned)
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.Partial)
	assert.Equal(t, []string{"UP", "FLAT"}, p.calls)
	for i := 1; i < len(result.Results); i++ {
		assert.GreaterOrEqual(t, result.Results[i-1].Score, result.Results[i].Score)
	}
}

func TestScanLatest(t *testing.T) {
	s, _ := newTestServer(t, &fakeProvider{})

	rec, _ := get(t, s, "/api/scan/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var latest *model.ScanResult
	s.SetLatest(func() *model.ScanResult { return latest })
	rec, _ = get(t, s, "/api/scan/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	latest = &model.ScanResult{ID: "bg-1", Profile: "Balanced"}
	rec, env := get(t, s, "/api/scan/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.ScanResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "bg-1", result.ID)
}

func TestScan_DefaultUniverseAndMax(t *testing.T) {
	p := &fakeProvider{}
	s, _ := newTestServer(t, p)

	rec, env := get(t, s, "/api/scan?max=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.ScanResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, []string{"AAPL", "MSFT"}, p.calls)
	for _, r := range result.Results {
		assert.Equal(t, model.StatusInsufficientData, r.Status)
	}
}

func TestScan_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
		code   string
	}{
		{"negative max", "/api/scan?max=-1", "ERR_GTE"},
		{"max not a number", "/api/scan?max=abc", "ERR_BIND"},
		{"unknown universe", "/api/scan?universe=russell", "ERR_ONEOF"},
		{"unknown profile", "/api/scan?symbols=AAPL&profile=Reckless", "ERR_ONEOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{}
			s, _ := newTestServer(t, p)

			rec, env := get(t, s, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var errs []ValidationError
			require.NoError(t, json.Unmarshal(env.Data, &errs))
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.code, errs[0].Code)
			assert.Empty(t, p.calls)
		})
	}
}

func TestAnalysis(t *testing.T) {
	p := &fakeProvider{data: map[string][]model.Candle{"UP": candles(100, 1, 80)}}
	s, _ := newTestServer(t, p)

	rec, env := get(t, s, "/api/symbols/up/analysis?threshold=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var report analyzer.Report
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "UP", report.Symbol)
	assert.Equal(t, 80, report.Bars)
	assert.NotEmpty(t, report.ZigZag.Pivots)
	assert.Contains(t, report.Latest, "sma10")
}

func TestAnalysis_Errors(t *testing.T) {
	p := &fakeProvider{
		data: map[string][]model.Candle{"ONE": candles(100, 0, 1)},
		errs: map[string]error{"DOWN": &provider.ProviderError{Provider: "fake", Err: assert.AnError}},
	}
	s, _ := newTestServer(t, p)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"provider failure", "/api/symbols/DOWN/analysis", http.StatusBadGateway},
		{"too few bars", "/api/symbols/ONE/analysis", http.StatusUnprocessableEntity},
		{"invalid symbol", "/api/symbols/$$$/analysis", http.StatusBadRequest},
		{"threshold out of range", "/api/symbols/ONE/analysis?threshold=500", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := get(t, s, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, env.Status)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, &fakeProvider{})
	get(t, s, "/api/profiles")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `screener_http_requests_total{method="GET",route="/api/profiles",status="200"} 1`)
}
