package zigzag

// Line is y = Slope*x + Intercept with x a bar index
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at bar x
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Channel holds the trend lines through high and low pivots. A side marked
// Derived was not fitted but placed parallel to the opposite side.
type Channel struct {
	Upper        *Line `json:"upper,omitempty"`
	Lower        *Line `json:"lower,omitempty"`
	UpperDerived bool  `json:"upper_derived,omitempty"`
	LowerDerived bool  `json:"lower_derived,omitempty"`
}

// FitChannel fits least-squares lines through the high pivots and the low
// pivots separately. A side needs two points to be fitted.
func FitChannel(pivots []Pivot) Channel {
	var highs, lows []Pivot
	for _, p := range pivots {
		if p.Kind == High {
			highs = append(highs, p)
		} else {
			lows = append(lows, p)
		}
	}

	var ch Channel
	upper, upperOK := fitLine(highs)
	lower, lowerOK := fitLine(lows)

	switch {
	case upperOK && lowerOK:
		ch.Upper, ch.Lower = &upper, &lower
	case upperOK:
		ch.Upper = &upper
		if len(lows) > 0 {
			l := parallel(upper, lows)
			ch.Lower, ch.LowerDerived = &l, true
		}
	case lowerOK:
		ch.Lower = &lower
		if len(highs) > 0 {
			u := parallel(lower, highs)
			ch.Upper, ch.UpperDerived = &u, true
		}
	}
	return ch
}

func fitLine(points []Pivot) (Line, bool) {
	if len(points) < 2 {
		return Line{}, false
	}

	n := float64(len(points))
	var sx, sy, sxx, sxy float64
	for _, p := range points {
		x := float64(p.Index)
		sx += x
		sy += p.Price
		sxx += x * x
		sxy += x * p.Price
	}

	den := n*sxx - sx*sx
	if den == 0 {
		return Line{}, false
	}
	slope := (n*sxy - sx*sy) / den
	return Line{Slope: slope, Intercept: (sy - slope*sx) / n}, true
}

// parallel shifts base by the mean deviation of points from it
func parallel(base Line, points []Pivot) Line {
	var dev float64
	for _, p := range points {
		dev += p.Price - base.At(float64(p.Index))
	}
	dev /= float64(len(points))
	return Line{Slope: base.Slope, Intercept: base.Intercept + dev}
}
