package indicator

import (
	"math"
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSI_Insufficient(t *testing.T) {
	_, err := RSI(wave(14), 14)
	assert.ErrorIs(t, err, ErrInsufficientData)

	s, err := RSI(wave(15), 14)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 14, s.Offset)
}

func TestRSI_Bounds(t *testing.T) {
	for _, n := range []int{15, 40, 200} {
		s, err := RSI(wave(n), 14)
		require.NoError(t, err)
		assert.Equal(t, n-14, s.Len())
		for _, v := range s.Values {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
}

func TestRSI_MatchesTalib(t *testing.T) {
	values := wave(200)
	s, err := RSI(values, 14)
	require.NoError(t, err)
	ref := talib.Rsi(values, 14)
	for i, v := range s.Values {
		assert.InDelta(t, ref[14+i], v, 1e-6, "index %d", i)
	}
}

func TestRSI_FlatSeries(t *testing.T) {
	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 42
	}
	s, err := RSI(flat, 14)
	require.NoError(t, err)
	for _, v := range s.Values {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		// no gains over a floored loss: RS = 0
		assert.Equal(t, 0.0, v)
	}
}

func TestRSI_RisingSeries(t *testing.T) {
	s, err := RSI(ramp(100, 30), 14)
	require.NoError(t, err)
	last, ok := s.Last()
	require.True(t, ok)
	assert.False(t, math.IsInf(last, 0))
	assert.Greater(t, last, 99.99)
	assert.Less(t, last, 100.0)
}
