package analyzer

import (
	"fmt"
	"math"
	"time"

	"screener/internal/indicator"
	"screener/internal/score"
	"screener/internal/zigzag"
	"screener/pkg/model"
)

// Report is the full technical picture of one symbol
type Report struct {
	Symbol string    `json:"symbol"`
	Bars   int       `json:"bars"`
	AsOf   time.Time `json:"as_of"`
	Close  float64   `json:"close"`

	// Latest holds the most recent value of every computed series
	Latest map[string]float64 `json:"latest"`

	RSISignal    string  `json:"rsi_signal"`
	TrendSignal  string  `json:"trend_signal"`
	PriceVsShort float64 `json:"price_vs_short_sma_pct"`
	PriceVsLong  float64 `json:"price_vs_long_sma_pct"`
	VolumeRatio  float64 `json:"volume_ratio"`
	VolumeSignal string  `json:"volume_signal"`

	Series      map[string]indicator.Series `json:"series"`
	MACDSignals []indicator.Signal          `json:"macd_signals,omitempty"`
	QQESignals  []indicator.Signal          `json:"qqe_signals,omitempty"`
	ZigZag      zigzag.Result               `json:"zigzag"`

	Score    score.Result `json:"score"`
	Weighted float64      `json:"weighted_score"`

	// Warnings lists indicators that could not be computed
	Warnings []string `json:"warnings,omitempty"`
}

// TechnicalAnalyzer computes reports from daily candles
type TechnicalAnalyzer struct {
	params score.Params
}

// NewTechnicalAnalyzer creates a new technical analyzer
func NewTechnicalAnalyzer(p score.Params) *TechnicalAnalyzer {
	return &TechnicalAnalyzer{params: p}
}

// Analyze builds a report from candles sorted oldest first. thresholdPct
// drives the ZigZag detector; weights produce Report.Weighted.
func (t *TechnicalAnalyzer) Analyze(symbol string, candles []model.Candle, thresholdPct float64, weights score.WeightConfig) (*Report, error) {
	if len(candles) == 0 {
		return nil, &indicator.InsufficientDataError{Indicator: "analysis", Need: 2, Got: 0}
	}

	s := model.SeriesFromCandles(candles)
	zz, err := zigzag.Detect(s.Closes, thresholdPct)
	if err != nil {
		return nil, fmt.Errorf("zigzag for %s: %w", symbol, err)
	}

	last := candles[len(candles)-1]
	r := &Report{
		Symbol: symbol,
		Bars:   len(candles),
		AsOf:   last.Time,
		Close:  last.Close,
		Latest: make(map[string]float64),
		Series: make(map[string]indicator.Series),
		ZigZag: zz,
	}

	p := t.params
	shortSMA := r.add(indicator.SMA(s.Closes, p.ShortSMA))
	longSMA := r.add(indicator.SMA(s.Closes, p.LongSMA))
	rsi := r.add(indicator.RSI(s.Closes, p.RSIPeriod))
	r.add(indicator.EMA(s.Closes, p.MACDFast))
	r.add(indicator.EMA(s.Closes, p.MACDSlow))

	if macd, err := indicator.MACD(s.Closes, p.MACDFast, p.MACDSlow, p.MACDSignal); err != nil {
		r.warn(err)
	} else {
		r.put("macd", macd.Line)
		if macd.Partial() {
			r.Warnings = append(r.Warnings, "macd: signal line needs more bars")
		} else {
			r.put("macd_signal", macd.Signal)
			r.put("macd_hist", macd.Histogram)
			r.MACDSignals = indicator.Crossovers(macd.Line, macd.Signal)
		}
	}

	if stoch, err := indicator.Stochastic(s.Highs, s.Lows, s.Closes, p.StochK, p.StochD); err != nil {
		r.warn(err)
	} else {
		r.put("stoch_k", stoch.K)
		r.put("stoch_d", stoch.D)
	}

	r.add(indicator.QQEApprox(s.Closes, p.QQEPeriod))
	if qqe, err := indicator.QQE(s.Closes, p.QQEPeriod, qqeSmoothing); err != nil {
		r.warn(err)
	} else {
		r.put("qqe_fast", qqe.Fast)
		r.put("qqe_slow", qqe.Slow)
		r.QQESignals = qqe.Signals
	}

	if v, ok := rsi.Last(); ok {
		r.RSISignal = getRSISignal(v)
	}
	r.PriceVsShort = priceVsMA(last.Close, shortSMA)
	r.PriceVsLong = priceVsMA(last.Close, longSMA)
	r.TrendSignal = getTrendSignal(r.PriceVsShort, r.PriceVsLong)
	r.VolumeRatio = calculateVolumeRatio(candles, volumePeriod)
	r.VolumeSignal = getVolumeSignal(r.VolumeRatio)

	r.Score = score.Evaluate(s, p)
	r.Weighted = score.Weighted(r.Score.Components, weights)

	return r, nil
}

const (
	qqeSmoothing = 5
	volumePeriod = 20
)

// add stores a series result and returns the series, empty on error
func (r *Report) add(s indicator.Series, err error) indicator.Series {
	if err != nil {
		r.warn(err)
		return indicator.Series{}
	}
	r.put(s.Name, s)
	return s
}

func (r *Report) put(name string, s indicator.Series) {
	r.Series[name] = s
	if v, ok := s.Last(); ok {
		r.Latest[name] = v
	}
}

func (r *Report) warn(err error) {
	r.Warnings = append(r.Warnings, err.Error())
}

// getRSISignal interprets RSI value
func getRSISignal(rsi float64) string {
	if rsi < 30 {
		return "oversold"
	} else if rsi > 70 {
		return "overbought"
	}
	return "neutral"
}

// priceVsMA returns the close's distance from the moving average in percent
func priceVsMA(price float64, ma indicator.Series) float64 {
	v, ok := ma.Last()
	if !ok || v == 0 {
		return 0
	}
	return math.Round((price-v)/v*10000) / 100 // percentage with 2 decimals
}

// getTrendSignal determines trend based on MA positions
func getTrendSignal(vsShort, vsLong float64) string {
	if vsShort > 1 && vsLong > 1 {
		return "uptrend"
	} else if vsShort < -1 && vsLong < -1 {
		return "downtrend"
	}
	return "neutral"
}

// calculateVolumeRatio compares the last volume with the prior average
func calculateVolumeRatio(candles []model.Candle, period int) float64 {
	if len(candles) < period {
		return 1.0
	}

	var sum int64
	for i := len(candles) - period; i < len(candles)-1; i++ {
		sum += candles[i].Volume
	}
	avgVolume := float64(sum) / float64(period-1)

	if avgVolume == 0 {
		return 1.0
	}

	todayVolume := float64(candles[len(candles)-1].Volume)
	return math.Round(todayVolume/avgVolume*100) / 100
}

// getVolumeSignal interprets volume ratio
func getVolumeSignal(ratio float64) string {
	if ratio < 0.7 {
		return "low"
	} else if ratio > 1.5 {
		return "high"
	}
	return "normal"
}
