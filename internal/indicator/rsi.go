package indicator

import "fmt"

// lossFloor replaces a zero average loss so RS stays finite.
const lossFloor = 1e-6

// RSI computes Wilder's relative strength index. The first value averages
// the first period deltas; later values use Wilder's recurrence.
// Output length is len(values)-period. A flat series yields 0, since the
// floored average loss leaves RS at 0.
func RSI(values []float64, period int) (Series, error) {
	name := fmt.Sprintf("rsi%d", period)
	if err := checkPeriod(name, period); err != nil {
		return Series{}, err
	}
	if len(values) < period+1 {
		return Series{}, insufficient(name, period+1, len(values))
	}

	p := float64(period)
	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / p
	avgLoss := losses / p

	out := make([]float64, 0, len(values)-period)
	out = append(out, rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		var gain, loss float64
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out = append(out, rsiValue(avgGain, avgLoss))
	}

	return Series{Name: name, Offset: period, Values: out}, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		avgLoss = lossFloor
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
