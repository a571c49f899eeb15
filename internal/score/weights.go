package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DefaultProfile is used when no profile is named
const DefaultProfile = "Balanced"

// WeightConfig maps component names to non-negative weights. A component
// missing from the map weighs 0.
type WeightConfig map[string]float64

// Weight returns the weight for a component
func (w WeightConfig) Weight(name string) float64 {
	return w[name]
}

// Validate rejects unknown component names and negative or non-finite weights
func (w WeightConfig) Validate() error {
	tag := "dive,keys,oneof=" + strings.Join(Names, " ") + ",endkeys,gte=0"
	if err := validate.Var(map[string]float64(w), tag); err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}
	// gte=0 passes +Inf
	for _, name := range Names {
		if math.IsInf(w[name], 0) {
			return fmt.Errorf("invalid weights: %s weight must be finite", name)
		}
	}
	return nil
}

// Profiles is a set of named weight configurations
type Profiles map[string]WeightConfig

// DefaultProfiles returns the built-in profiles
func DefaultProfiles() Profiles {
	return Profiles{
		"Conservative": {SMA: 1.2, RSI: 0.8, MACD: 0.6, Stoch: 0.4, QQE: 0.6},
		"Balanced":     {SMA: 1, RSI: 1, MACD: 1, Stoch: 1, QQE: 1},
		"Aggressive":   {SMA: 0.8, RSI: 1.2, MACD: 1.4, Stoch: 1.2, QQE: 1.2},
	}
}

// Get looks up a profile by name
func (p Profiles) Get(name string) (WeightConfig, error) {
	w, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s (available: %v)", name, p.Names())
	}
	return w, nil
}

// Names returns the profile names sorted
func (p Profiles) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every profile's weights
func (p Profiles) Validate() error {
	for _, name := range p.Names() {
		if err := p[name].Validate(); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}
	return nil
}
