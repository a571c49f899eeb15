package score

import (
	"fmt"

	"screener/internal/indicator"
	"screener/pkg/model"
)

// Component names, in evaluation order
const (
	SMA   = "sma"
	RSI   = "rsi"
	MACD  = "macd"
	Stoch = "stoch"
	QQE   = "qqe"
)

// Names lists every component in evaluation order
var Names = []string{SMA, RSI, MACD, Stoch, QQE}

const maxComponentScore = 2.0

// Params holds indicator periods and trigger levels for the components
type Params struct {
	ShortSMA int `yaml:"short_sma" default:"10" validate:"gte=1"`
	LongSMA  int `yaml:"long_sma" default:"50" validate:"gtfield=ShortSMA"`

	RSIPeriod    int     `yaml:"rsi_period" default:"14" validate:"gte=1"`
	RSIOversold  float64 `yaml:"rsi_oversold" default:"30" validate:"gte=0,lte=100"`
	RSIFavorable float64 `yaml:"rsi_favorable" default:"45" validate:"gtefield=RSIOversold,lte=100"`

	MACDFast   int `yaml:"macd_fast" default:"12" validate:"gte=1"`
	MACDSlow   int `yaml:"macd_slow" default:"26" validate:"gtfield=MACDFast"`
	MACDSignal int `yaml:"macd_signal" default:"9" validate:"gte=1"`

	StochK        int     `yaml:"stoch_k" default:"14" validate:"gte=1"`
	StochD        int     `yaml:"stoch_d" default:"3" validate:"gte=1"`
	StochOversold float64 `yaml:"stoch_oversold" default:"20" validate:"gte=0,lte=100"`

	QQEPeriod  int     `yaml:"qqe_period" default:"14" validate:"gte=1"`
	QQECeiling float64 `yaml:"qqe_ceiling" default:"55" validate:"gte=0,lte=100"` // approx must stay below this to count

	MinBars int `yaml:"-" default:"50" validate:"gte=1"` // fewer closes = insufficient data
}

// DefaultParams returns the classic screener settings
func DefaultParams() Params {
	return Params{
		ShortSMA:      10,
		LongSMA:       50,
		RSIPeriod:     14,
		RSIOversold:   30,
		RSIFavorable:  45,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
		StochK:        14,
		StochD:        3,
		StochOversold: 20,
		QQEPeriod:     14,
		QQECeiling:    55,
		MinBars:       50,
	}
}

// Component is one indicator's contribution. Available is false when the
// indicator could not be computed, which is different from a computed
// indicator that did not trigger.
type Component struct {
	Name      string   `json:"name"`
	Score     float64  `json:"score"`
	Available bool     `json:"available"`
	Reasons   []string `json:"reasons,omitempty"`
}

func (c *Component) add(points float64, reason string) {
	c.Score += points
	c.Reasons = append(c.Reasons, reason)
}

func (c *Component) capAt(limit float64) {
	if c.Score > limit {
		c.Score = limit
	}
}

func unavailable(name string) Component {
	return Component{Name: name}
}

func smaComponent(closes []float64, p Params) Component {
	short, err := indicator.SMA(closes, p.ShortSMA)
	if err != nil {
		return unavailable(SMA)
	}
	long, err := indicator.SMA(closes, p.LongSMA)
	if err != nil {
		return unavailable(SMA)
	}

	c := Component{Name: SMA, Available: true}
	s, _ := short.Last()
	l, _ := long.Last()
	if s > l {
		c.add(1, fmt.Sprintf("SMA bullish (%d>%d)", p.ShortSMA, p.LongSMA))
	}
	return c
}

func rsiComponent(closes []float64, p Params) Component {
	rsi, err := indicator.RSI(closes, p.RSIPeriod)
	if err != nil {
		return unavailable(RSI)
	}

	c := Component{Name: RSI, Available: true}
	v, _ := rsi.Last()
	switch {
	case v < p.RSIOversold:
		c.add(1, "RSI oversold")
	case v <= p.RSIFavorable:
		c.add(0.6, fmt.Sprintf("RSI favorable (%g-%g)", p.RSIOversold, p.RSIFavorable))
	}
	return c
}

func macdComponent(closes []float64, p Params) Component {
	r, err := indicator.MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	if err != nil || r.Partial() {
		return unavailable(MACD)
	}

	c := Component{Name: MACD, Available: true}
	line, _ := r.Line.Last()
	signal, _ := r.Signal.Last()
	if line > signal {
		c.add(1, "MACD bullish cross")
	}
	if cur, ok := r.Histogram.Last(); ok {
		if prev, ok := r.Histogram.Back(1); ok && cur > prev {
			c.add(0.5, "MACD histogram rising")
		}
	}
	c.capAt(maxComponentScore)
	return c
}

func stochComponent(s model.PriceSeries, p Params) Component {
	r, err := indicator.Stochastic(s.Highs, s.Lows, s.Closes, p.StochK, p.StochD)
	if err != nil {
		return unavailable(Stoch)
	}

	c := Component{Name: Stoch, Available: true}
	k, _ := r.K.Last()
	d, _ := r.D.Last()
	if k < p.StochOversold {
		c.add(1, "Stochastic oversold")
	}
	prevK, okK := r.K.Back(1)
	prevD, okD := r.D.Back(1)
	if okK && okD && k > d && prevK <= prevD {
		c.add(0.6, "Stochastic K crossed up D")
	}
	c.capAt(maxComponentScore)
	return c
}

func qqeComponent(closes []float64, p Params) Component {
	approx, err := indicator.QQEApprox(closes, p.QQEPeriod)
	if err != nil || approx.Len() < 2 {
		return unavailable(QQE)
	}

	c := Component{Name: QQE, Available: true}
	cur, _ := approx.Last()
	prev, _ := approx.Back(1)
	if cur > prev && cur < p.QQECeiling {
		c.add(0.8, fmt.Sprintf("QQE approx rising (below %g)", p.QQECeiling))
	}
	return c
}
