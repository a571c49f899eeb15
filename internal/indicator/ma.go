package indicator

import "fmt"

// SMA computes the simple moving average over each window of consecutive
// values. Output length is len(values)-window+1.
func SMA(values []float64, window int) (Series, error) {
	name := fmt.Sprintf("sma%d", window)
	if err := checkPeriod(name, window); err != nil {
		return Series{}, err
	}
	if len(values) < window {
		return Series{}, insufficient(name, window, len(values))
	}

	out := make([]float64, len(values)-window+1)
	var sum float64
	for i := 0; i < window; i++ {
		sum += values[i]
	}
	out[0] = sum / float64(window)
	for i := window; i < len(values); i++ {
		sum += values[i] - values[i-window]
		out[i-window+1] = sum / float64(window)
	}

	return Series{Name: name, Offset: window - 1, Values: out}, nil
}

// EMA computes the exponential moving average seeded with the SMA of the
// first period values. The seed is not emitted, so the output holds
// len(values)-period values starting at bar period.
func EMA(values []float64, period int) (Series, error) {
	name := fmt.Sprintf("ema%d", period)
	if err := checkPeriod(name, period); err != nil {
		return Series{}, err
	}
	if len(values) < period {
		return Series{}, insufficient(name, period, len(values))
	}

	k := 2.0 / float64(period+1)
	var prev float64
	for i := 0; i < period; i++ {
		prev += values[i]
	}
	prev /= float64(period)

	out := make([]float64, 0, len(values)-period)
	for i := period; i < len(values); i++ {
		prev = values[i]*k + prev*(1-k)
		out = append(out, prev)
	}

	return Series{Name: name, Offset: period, Values: out}, nil
}
