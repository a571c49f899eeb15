package zigzag

import (
	"errors"

	"screener/internal/indicator"
)

// Kind is the type of a pivot
type Kind string

const (
	High Kind = "high"
	Low  Kind = "low"
)

// Method tells which pass produced the pivots
type Method string

const (
	MethodThreshold    Method = "threshold"
	MethodLocalExtrema Method = "local_extrema"
	MethodEndpoints    Method = "endpoints"
)

const (
	minPivots         = 3
	maxFallbackPivots = 12
)

var ErrInvalidThreshold = errors.New("zigzag: threshold must be positive")

// Pivot is a turning point at bar Index
type Pivot struct {
	Index int     `json:"index"`
	Price float64 `json:"price"`
	Kind  Kind    `json:"kind"`
}

// Result holds the pivots, ordered by index with alternating kinds, and the
// trend channel fitted through them.
type Result struct {
	Pivots  []Pivot `json:"pivots"`
	Method  Method  `json:"method"`
	Channel Channel `json:"channel"`
}

// Detect extracts pivots from chronological closes. A move must reach
// thresholdPct percent from the last pivot to confirm the next one.
//
// When the threshold yields fewer than three pivots the threshold is
// ignored and strict three-point local extrema are used instead; when
// there are none of those either, the first and last bars are returned.
// Result.Method says which of these happened.
func Detect(closes []float64, thresholdPct float64) (Result, error) {
	if thresholdPct <= 0 {
		return Result{}, ErrInvalidThreshold
	}
	if len(closes) < 2 {
		return Result{}, &indicator.InsufficientDataError{Indicator: "zigzag", Need: 2, Got: len(closes)}
	}

	pivots := thresholdPivots(closes, thresholdPct)
	method := MethodThreshold
	if len(pivots) < minPivots {
		pivots = localExtrema(closes)
		method = MethodLocalExtrema
	}
	if len(pivots) == 0 {
		pivots = endpoints(closes)
		method = MethodEndpoints
	}

	return Result{
		Pivots:  pivots,
		Method:  method,
		Channel: FitChannel(pivots),
	}, nil
}

func thresholdPivots(closes []float64, pct float64) []Pivot {
	var pivots []Pivot
	var lastKind Kind

	ref := closes[0]
	hi, hiIdx := closes[0], 0
	lo, loIdx := closes[0], 0

	for i := 1; i < len(closes); i++ {
		p := closes[i]
		if p > hi {
			hi, hiIdx = p, i
		}
		if p < lo {
			lo, loIdx = p, i
		}
		if ref <= 0 {
			continue
		}

		switch {
		case lastKind != High && (hi-ref)/ref*100 >= pct:
			pivots = append(pivots, Pivot{Index: hiIdx, Price: hi, Kind: High})
			lastKind, ref = High, hi
			lo, loIdx = hi, hiIdx
		case lastKind != Low && (ref-lo)/ref*100 >= pct:
			pivots = append(pivots, Pivot{Index: loIdx, Price: lo, Kind: Low})
			lastKind, ref = Low, lo
			hi, hiIdx = lo, loIdx
		}
	}

	return appendTerminal(pivots, closes)
}

// appendTerminal adds the final bar as a pivot. If it would repeat the last
// pivot's kind, the last pivot moves to the final bar instead.
func appendTerminal(pivots []Pivot, closes []float64) []Pivot {
	last := len(closes) - 1
	n := len(pivots)
	if n > 0 && pivots[n-1].Index == last {
		return pivots
	}

	prevPrice := closes[0]
	if n > 0 {
		prevPrice = pivots[n-1].Price
	}
	terminal := Pivot{Index: last, Price: closes[last], Kind: Low}
	if closes[last] > prevPrice {
		terminal.Kind = High
	}

	if n > 0 && pivots[n-1].Kind == terminal.Kind {
		pivots[n-1] = terminal
		return pivots
	}
	return append(pivots, terminal)
}

func localExtrema(closes []float64) []Pivot {
	var pivots []Pivot
	for i := 1; i < len(closes)-1; i++ {
		prev, cur, next := closes[i-1], closes[i], closes[i+1]

		var p Pivot
		switch {
		case cur > prev && cur > next:
			p = Pivot{Index: i, Price: cur, Kind: High}
		case cur < prev && cur < next:
			p = Pivot{Index: i, Price: cur, Kind: Low}
		default:
			continue
		}

		// keep kinds alternating: collapse runs into their extreme
		if n := len(pivots); n > 0 && pivots[n-1].Kind == p.Kind {
			if moreExtreme(p, pivots[n-1]) {
				pivots[n-1] = p
			}
			continue
		}
		pivots = append(pivots, p)
	}

	if len(pivots) > maxFallbackPivots {
		pivots = pivots[len(pivots)-maxFallbackPivots:]
	}
	return pivots
}

func moreExtreme(a, b Pivot) bool {
	if a.Kind == High {
		return a.Price > b.Price
	}
	return a.Price < b.Price
}

func endpoints(closes []float64) []Pivot {
	last := len(closes) - 1
	first := Pivot{Index: 0, Price: closes[0], Kind: Low}
	end := Pivot{Index: last, Price: closes[last], Kind: High}
	if closes[last] < closes[0] {
		first.Kind, end.Kind = High, Low
	}
	return []Pivot{first, end}
}
