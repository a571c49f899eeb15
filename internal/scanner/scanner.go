package scanner

import (
	"context"
	"fmt"
	"time"

	"screener/internal/analyzer"
	"screener/internal/market"
	"screener/internal/metrics"
	"screener/internal/provider"
	"screener/internal/ratelimit"
	"screener/internal/score"
	"screener/pkg/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProgressCallback is called with progress updates
type ProgressCallback func(scanned, total int, last model.ScoredSymbol)

// Config holds scanner settings
type Config struct {
	Delay       time.Duration // spacing between symbol fetches
	HistoryDays int           // daily candles requested per symbol
	Params      score.Params
}

// Request describes one scan
type Request struct {
	Symbols  []string
	Profile  string
	Weights  score.WeightConfig
	Max      int // only the first Max symbols are scanned; 0 scans all
	Progress ProgressCallback
}

// Scanner fetches and scores symbols one at a time
type Scanner struct {
	provider    provider.Provider
	pacer       *ratelimit.Pacer
	analyzer    *analyzer.TechnicalAnalyzer
	params      score.Params
	historyDays int
	schedule    market.Schedule
	now         func() time.Time
	metrics     *metrics.Recorder
	log         zerolog.Logger
}

// NewScanner creates a new scanner
func NewScanner(p provider.Provider, cfg Config, log zerolog.Logger, rec *metrics.Recorder) *Scanner {
	return &Scanner{
		provider:    p,
		pacer:       ratelimit.NewPacer(cfg.Delay),
		analyzer:    analyzer.NewTechnicalAnalyzer(cfg.Params),
		params:      cfg.Params,
		historyDays: cfg.HistoryDays,
		schedule:    market.DefaultSchedule(),
		now:         time.Now,
		metrics:     rec,
		log:         log.With().Str("component", "scanner").Logger(),
	}
}

// Scan fetches and scores each symbol in order, then ranks the results.
// A failing symbol is recorded with an error status and never stops the
// scan. If ctx ends early the symbols finished so far are returned ranked,
// with Partial set, together with the context error.
func (s *Scanner) Scan(ctx context.Context, req Request) (*model.ScanResult, error) {
	startTime := time.Now()

	symbols := Limit(req.Symbols, req.Max)
	result := &model.ScanResult{
		ID:        uuid.NewString(),
		Profile:   req.Profile,
		Results:   make([]model.ScoredSymbol, 0, len(symbols)),
		StartedAt: startTime,
	}

	log := s.log.With().Str("scan_id", result.ID).Logger()
	log.Info().Int("symbols", len(symbols)).Str("profile", req.Profile).Msg("scan started")

	var scanErr error
	for i, sym := range symbols {
		if err := s.pacer.Wait(ctx); err != nil {
			scanErr = err
			break
		}

		r, err := s.scoreSymbol(ctx, sym, req.Weights)
		if err != nil {
			scanErr = err
			break
		}

		log.Debug().Str("symbol", sym).Str("status", string(r.Status)).
			Float64("score", r.Score).Str("reason", r.Reason).Msg("symbol scored")
		s.metrics.RecordSymbol(sym, string(r.Status), r.Score)

		result.Results = append(result.Results, r)
		if req.Progress != nil {
			req.Progress(i+1, len(symbols), r)
		}
	}

	score.Rank(result.Results)
	result.TotalScanned = len(result.Results)
	result.Partial = scanErr != nil
	result.ScanTime = time.Since(startTime)
	s.metrics.RecordScan(result.ScanTime)

	if scanErr != nil {
		log.Warn().Err(scanErr).Int("scanned", result.TotalScanned).Int("requested", len(symbols)).Msg("scan interrupted")
		return result, scanErr
	}

	log.Info().Int("scanned", result.TotalScanned).Dur("elapsed", result.ScanTime).Msg("scan finished")
	return result, nil
}

// scoreSymbol returns an error only when ctx ended during the fetch
func (s *Scanner) scoreSymbol(ctx context.Context, sym string, w score.WeightConfig) (model.ScoredSymbol, error) {
	candles, err := s.provider.GetDailyCandles(ctx, sym, s.historyDays)
	if err != nil {
		if ctx.Err() != nil {
			return model.ScoredSymbol{}, ctx.Err()
		}
		s.log.Warn().Err(err).Str("symbol", sym).Msg("fetch failed")
		return score.Failed(sym, err), nil
	}
	return score.Symbol(sym, model.SeriesFromCandles(candles), s.params, w), nil
}

// Inspect fetches one symbol and builds its full technical report
func (s *Scanner) Inspect(ctx context.Context, symbol string, thresholdPct float64, w score.WeightConfig) (*analyzer.Report, error) {
	candles, err := s.provider.GetDailyCandles(ctx, symbol, s.historyDays)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", symbol, err)
	}
	report, err := s.analyzer.Analyze(symbol, candles, thresholdPct, w)
	if err != nil {
		return nil, err
	}
	if s.schedule.IsStale(report.AsOf, s.now(), maxSessionLag) {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("stale data: last bar %s, last session %s",
				report.AsOf.Format("2006-01-02"), s.schedule.LastSession(s.now()).Format("2006-01-02")))
	}
	return report, nil
}

// sessions a provider's latest bar may trail the last closed session
const maxSessionLag = 2

// Limit returns the first n symbols; n <= 0 keeps all
func Limit(symbols []string, n int) []string {
	if n > 0 && len(symbols) > n {
		return symbols[:n]
	}
	return symbols
}
