package score

import (
	"sort"
	"strings"

	"screener/pkg/model"
)

const (
	ReasonSeparator    = " · "
	ReasonNoSignal     = "no clear signal"
	ReasonInsufficient = "insufficient data"
	ReasonFetchError   = "error fetching"
)

// Result is the unweighted evaluation of one price series
type Result struct {
	Components []Component `json:"components"`
	Reason     string      `json:"reason"`
}

// Scores returns component scores keyed by name
func (r Result) Scores() map[string]float64 {
	out := make(map[string]float64, len(r.Components))
	for _, c := range r.Components {
		out[c.Name] = c.Score
	}
	return out
}

// Component returns the named component
func (r Result) Component(name string) (Component, bool) {
	for _, c := range r.Components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}

// Evaluate runs every component over a chronological series
func Evaluate(s model.PriceSeries, p Params) Result {
	components := []Component{
		smaComponent(s.Closes, p),
		rsiComponent(s.Closes, p),
		macdComponent(s.Closes, p),
		stochComponent(s, p),
		qqeComponent(s.Closes, p),
	}
	return Result{
		Components: components,
		Reason:     Reason(components),
	}
}

// Reason joins triggered descriptions in evaluation order
func Reason(components []Component) string {
	var reasons []string
	for _, c := range components {
		reasons = append(reasons, c.Reasons...)
	}
	if len(reasons) == 0 {
		return ReasonNoSignal
	}
	return strings.Join(reasons, ReasonSeparator)
}

// Weighted is the dot product of component scores and weights
func Weighted(components []Component, w WeightConfig) float64 {
	var total float64
	for _, c := range components {
		total += c.Score * w.Weight(c.Name)
	}
	return total
}

// Symbol scores one symbol's series. Series shorter than p.MinBars are
// reported as insufficient data without evaluating any indicator.
func Symbol(symbol string, s model.PriceSeries, p Params, w WeightConfig) model.ScoredSymbol {
	out := model.ScoredSymbol{
		Symbol: symbol,
		Bars:   s.Len(),
	}

	if err := s.Validate(); err != nil {
		out.Status = model.StatusError
		out.Reason = ReasonFetchError
		out.Err = err.Error()
		return out
	}
	if s.Len() < p.MinBars {
		out.Status = model.StatusInsufficientData
		out.Reason = ReasonInsufficient
		return out
	}

	r := Evaluate(s, p)
	out.Status = model.StatusOK
	out.Components = r.Scores()
	out.Score = Weighted(r.Components, w)
	out.Reason = r.Reason
	return out
}

// Failed records a symbol whose data could not be fetched
func Failed(symbol string, err error) model.ScoredSymbol {
	out := model.ScoredSymbol{
		Symbol: symbol,
		Status: model.StatusError,
		Reason: ReasonFetchError,
	}
	if err != nil {
		out.Err = err.Error()
	}
	return out
}

// Rank sorts by descending score; ties keep their input order
func Rank(results []model.ScoredSymbol) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
