package model

import (
	"fmt"
	"time"
)

// Candle represents a single daily bar (OHLCV data)
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries holds parallel close/high/low arrays in chronological order:
// index 0 is the oldest bar, the last index is the most recent one.
type PriceSeries struct {
	Closes []float64 `json:"closes"`
	Highs  []float64 `json:"highs"`
	Lows   []float64 `json:"lows"`
}

// SeriesFromCandles builds a PriceSeries from candles sorted oldest first
func SeriesFromCandles(candles []Candle) PriceSeries {
	s := PriceSeries{
		Closes: make([]float64, len(candles)),
		Highs:  make([]float64, len(candles)),
		Lows:   make([]float64, len(candles)),
	}
	for i, c := range candles {
		s.Closes[i] = c.Close
		s.Highs[i] = c.High
		s.Lows[i] = c.Low
	}
	return s
}

// Len returns the number of bars
func (s PriceSeries) Len() int {
	return len(s.Closes)
}

// Validate checks that the three arrays are aligned
func (s PriceSeries) Validate() error {
	if len(s.Highs) != len(s.Closes) || len(s.Lows) != len(s.Closes) {
		return fmt.Errorf("misaligned series: closes=%d highs=%d lows=%d",
			len(s.Closes), len(s.Highs), len(s.Lows))
	}
	return nil
}

// MostRecentFirst returns a reversed copy for display purposes.
func (s PriceSeries) MostRecentFirst() PriceSeries {
	return PriceSeries{
		Closes: Reversed(s.Closes),
		Highs:  Reversed(s.Highs),
		Lows:   Reversed(s.Lows),
	}
}

// Reversed returns a reversed copy of values
func Reversed(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

// SymbolStatus describes how a symbol's scan ended
type SymbolStatus string

const (
	StatusOK               SymbolStatus = "ok"
	StatusInsufficientData SymbolStatus = "insufficient_data"
	StatusError            SymbolStatus = "error"
)

// ScoredSymbol is the per-symbol outcome of a scan
type ScoredSymbol struct {
	Symbol     string             `json:"symbol"`
	Status     SymbolStatus       `json:"status"`
	Components map[string]float64 `json:"components,omitempty"`
	Score      float64            `json:"score"`
	Reason     string             `json:"reason"`
	Bars       int                `json:"bars,omitempty"`
	Err        string             `json:"error,omitempty"`
}

// ScanResult represents the final scan output
type ScanResult struct {
	ID           string         `json:"id"`
	Profile      string         `json:"profile"`
	TotalScanned int            `json:"total_scanned"`
	Results      []ScoredSymbol `json:"results"`
	Partial      bool           `json:"partial"`
	StartedAt    time.Time      `json:"started_at"`
	ScanTime     time.Duration  `json:"scan_time"`
}
