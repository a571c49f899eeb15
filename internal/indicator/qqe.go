package indicator

import "math"

const (
	// QQEFactor scales the smoothed RSI volatility into band width
	QQEFactor = 4.236

	approxSmoothing = 3
)

// QQEApprox smooths RSI(period) with EMA(3). It is a trend proxy only.
func QQEApprox(values []float64, period int) (Series, error) {
	if err := checkPeriod("qqe_approx", period); err != nil {
		return Series{}, err
	}
	if len(values) < period+approxSmoothing {
		return Series{}, insufficient("qqe_approx", period+approxSmoothing, len(values))
	}

	rsi, err := RSI(values, period)
	if err != nil {
		return Series{}, err
	}
	smoothed, err := EMA(rsi.Values, approxSmoothing)
	if err != nil {
		return Series{}, err
	}
	return shifted(smoothed, "qqe_approx", rsi.Offset), nil
}

// QQEResult holds the QQE fast and slow lines, the bands the slow line
// ratchets between, and the fast/slow crossover signals.
type QQEResult struct {
	Fast    Series   `json:"fast"`
	Slow    Series   `json:"slow"`
	Upper   Series   `json:"upper"`
	Lower   Series   `json:"lower"`
	Signals []Signal `json:"signals"`
}

// QQE computes the fast line EMA(RSI(period), smoothing) and the slow
// trailing line. Band width is a double Wilder average (alpha 1/period) of
// the fast line's absolute bar-to-bar change times QQEFactor.
func QQE(values []float64, period, smoothing int) (QQEResult, error) {
	if err := checkPeriod("qqe", period, smoothing); err != nil {
		return QQEResult{}, err
	}
	if need := period + smoothing + 3; len(values) < need {
		return QQEResult{}, insufficient("qqe", need, len(values))
	}

	rsi, err := RSI(values, period)
	if err != nil {
		return QQEResult{}, err
	}
	smoothed, err := EMA(rsi.Values, smoothing)
	if err != nil {
		return QQEResult{}, err
	}
	fast := smoothed.Values

	// Outputs start at the second fast value, the first with a prior bar.
	m := len(fast) - 1
	offset := rsi.Offset + smoothed.Offset + 1
	fastOut := make([]float64, m)
	slow := make([]float64, m)
	upper := make([]float64, m)
	lower := make([]float64, m)

	alpha := 1 / float64(period)
	var wwma, atr float64
	for j := 0; j < m; j++ {
		cur, prevFast := fast[j+1], fast[j]
		tr := math.Abs(cur - prevFast)
		wwma = alpha*tr + (1-alpha)*wwma
		atr = alpha*wwma + (1-alpha)*atr
		dar := atr * QQEFactor

		fastOut[j] = cur
		upper[j] = cur + dar
		lower[j] = cur - dar
		if j == 0 {
			slow[j] = lower[j]
			continue
		}
		slow[j] = ratchet(slow[j-1], cur, prevFast, upper[j], lower[j])
	}

	result := QQEResult{
		Fast:  Series{Name: "qqe_fast", Offset: offset, Values: fastOut},
		Slow:  Series{Name: "qqe_slow", Offset: offset, Values: slow},
		Upper: Series{Name: "qqe_upper", Offset: offset, Values: upper},
		Lower: Series{Name: "qqe_lower", Offset: offset, Values: lower},
	}
	result.Signals = Crossovers(result.Fast, result.Slow)
	return result, nil
}

// ratchet returns the next slow-line value. The line only steps down to
// the upper band when that band falls below it, only steps up to the lower
// band when that band rises above it, and flips to the opposite band when
// the fast line crosses its previous value.
func ratchet(prev, fast, prevFast, up, dn float64) float64 {
	switch {
	case up < prev:
		return up
	case fast > prev && prevFast < prev:
		return dn
	case dn > prev:
		return dn
	case fast < prev && prevFast > prev:
		return up
	default:
		return prev
	}
}
