package indicator

// SignalKind is the direction of a crossover event
type SignalKind string

const (
	SignalBuy  SignalKind = "buy"
	SignalSell SignalKind = "sell"
)

// Signal marks a crossover at input bar Index
type Signal struct {
	Index int        `json:"index"`
	Kind  SignalKind `json:"kind"`
	Value float64    `json:"value"`
}

// Crossovers scans the overlap of two aligned series chronologically.
// A buy is emitted where fast goes from at-or-below slow to above it, a
// sell where it goes from at-or-above to below. Value is fast's value.
func Crossovers(fast, slow Series) []Signal {
	start := max(fast.Offset, slow.Offset)
	end := min(fast.Offset+fast.Len(), slow.Offset+slow.Len())

	var signals []Signal
	for idx := start + 1; idx < end; idx++ {
		fp := fast.Values[idx-1-fast.Offset]
		sp := slow.Values[idx-1-slow.Offset]
		fc := fast.Values[idx-fast.Offset]
		sc := slow.Values[idx-slow.Offset]

		switch {
		case fp <= sp && fc > sc:
			signals = append(signals, Signal{Index: idx, Kind: SignalBuy, Value: fc})
		case fp >= sp && fc < sc:
			signals = append(signals, Signal{Index: idx, Kind: SignalSell, Value: fc})
		}
	}
	return signals
}
