package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		w       WeightConfig
		wantErr bool
	}{
		{"balanced", WeightConfig{SMA: 1, RSI: 1, MACD: 1, Stoch: 1, QQE: 1}, false},
		{"partial", WeightConfig{SMA: 2}, false},
		{"zero", WeightConfig{RSI: 0}, false},
		{"empty", WeightConfig{}, false},
		{"negative", WeightConfig{SMA: -0.5}, true},
		{"unknown name", WeightConfig{"vwap": 1}, true},
		{"nan", WeightConfig{MACD: math.NaN()}, true},
		{"positive infinity", WeightConfig{SMA: 1, Stoch: math.Inf(1)}, true},
		{"negative infinity", WeightConfig{QQE: math.Inf(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultProfiles(t *testing.T) {
	p := DefaultProfiles()
	require.NoError(t, p.Validate())
	assert.Equal(t, []string{"Aggressive", "Balanced", "Conservative"}, p.Names())

	balanced, err := p.Get(DefaultProfile)
	require.NoError(t, err)
	for _, name := range Names {
		assert.Equal(t, 1.0, balanced.Weight(name), name)
	}

	conservative, err := p.Get("Conservative")
	require.NoError(t, err)
	assert.Equal(t, 1.2, conservative.Weight(SMA))
	assert.Equal(t, 0.4, conservative.Weight(Stoch))

	_, err = p.Get("YOLO")
	assert.Error(t, err)
}
