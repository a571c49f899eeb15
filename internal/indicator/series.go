package indicator

// Series is a named indicator output aligned to the tail of its input.
// Values[i] belongs to input bar Offset+i; inputs are chronological, so
// the last value always refers to the most recent bar.
type Series struct {
	Name   string    `json:"name"`
	Offset int       `json:"offset"`
	Values []float64 `json:"values"`
}

// Len returns the number of values
func (s Series) Len() int {
	return len(s.Values)
}

// Last returns the value at the most recent bar
func (s Series) Last() (float64, bool) {
	return s.Back(0)
}

// Back returns the value k bars before the most recent one
func (s Series) Back(k int) (float64, bool) {
	i := len(s.Values) - 1 - k
	if k < 0 || i < 0 {
		return 0, false
	}
	return s.Values[i], true
}

// At returns the value belonging to input bar idx
func (s Series) At(idx int) (float64, bool) {
	i := idx - s.Offset
	if i < 0 || i >= len(s.Values) {
		return 0, false
	}
	return s.Values[i], true
}

// MostRecentFirst returns the values reversed, for display
func (s Series) MostRecentFirst() []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[len(s.Values)-1-i] = v
	}
	return out
}

// shifted re-bases a series computed over a derived input that itself
// started at input bar base.
func shifted(s Series, name string, base int) Series {
	s.Name = name
	s.Offset += base
	return s
}
