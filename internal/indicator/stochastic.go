package indicator

// flatRangeK is %K when the window's highest high equals its lowest low.
const flatRangeK = 50

// StochasticResult holds %K and its SMA %D
type StochasticResult struct {
	K Series `json:"k"`
	D Series `json:"d"`
}

// Stochastic computes %K over every kPeriod window ending at each bar and
// %D as SMA(%K, dPeriod).
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (StochasticResult, error) {
	if err := checkPeriod("stochastic", kPeriod, dPeriod); err != nil {
		return StochasticResult{}, err
	}
	if len(highs) != len(closes) || len(lows) != len(closes) {
		return StochasticResult{}, ErrMisaligned
	}
	n := len(closes)
	if n < kPeriod+dPeriod {
		return StochasticResult{}, insufficient("stochastic", kPeriod+dPeriod, n)
	}

	k := make([]float64, 0, n-kPeriod+1)
	for end := kPeriod - 1; end < n; end++ {
		highest, lowest := highs[end], lows[end]
		for i := end - kPeriod + 1; i < end; i++ {
			highest = max(highest, highs[i])
			lowest = min(lowest, lows[i])
		}
		if highest == lowest {
			k = append(k, flatRangeK)
			continue
		}
		k = append(k, (closes[end]-lowest)/(highest-lowest)*100)
	}

	d, err := SMA(k, dPeriod)
	if err != nil {
		return StochasticResult{}, err
	}

	return StochasticResult{
		K: Series{Name: "stoch_k", Offset: kPeriod - 1, Values: k},
		D: shifted(d, "stoch_d", kPeriod-1),
	}, nil
}
