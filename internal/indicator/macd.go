package indicator

// MACDResult holds the MACD line, its signal line and the histogram.
// Signal and Histogram are empty when only the line could be computed.
type MACDResult struct {
	Line      Series `json:"line"`
	Signal    Series `json:"signal"`
	Histogram Series `json:"histogram"`
}

// Partial reports whether the signal line was unavailable
func (r MACDResult) Partial() bool {
	return r.Signal.Len() == 0
}

// MACD computes EMA(fast)-EMA(slow) on the overlapping tail of both EMAs,
// its EMA(signal), and the histogram over the overlap of the two.
func MACD(values []float64, fast, slow, signal int) (MACDResult, error) {
	if err := checkPeriod("macd", fast, slow, signal); err != nil {
		return MACDResult{}, err
	}
	if len(values) < slow+signal {
		return MACDResult{}, insufficient("macd", slow+signal, len(values))
	}

	emaFast, err := EMA(values, fast)
	if err != nil {
		return MACDResult{}, err
	}
	emaSlow, err := EMA(values, slow)
	if err != nil {
		return MACDResult{}, err
	}

	n := min(emaFast.Len(), emaSlow.Len())
	line := make([]float64, n)
	for i := range line {
		line[i] = emaFast.Values[emaFast.Len()-n+i] - emaSlow.Values[emaSlow.Len()-n+i]
	}
	result := MACDResult{
		Line: Series{Name: "macd", Offset: len(values) - n, Values: line},
	}

	sig, err := EMA(line, signal)
	if err != nil || sig.Len() == 0 {
		return result, nil
	}
	result.Signal = shifted(sig, "macd_signal", result.Line.Offset)

	m := sig.Len()
	hist := make([]float64, m)
	for i := range hist {
		hist[i] = line[n-m+i] - sig.Values[i]
	}
	result.Histogram = Series{Name: "macd_hist", Offset: result.Signal.Offset, Values: hist}

	return result, nil
}
