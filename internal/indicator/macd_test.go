package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACD_Insufficient(t *testing.T) {
	_, err := MACD(wave(34), 12, 26, 9)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestMACD_PartialAtBoundary(t *testing.T) {
	r, err := MACD(wave(35), 12, 26, 9)
	require.NoError(t, err)
	assert.True(t, r.Partial())
	assert.Equal(t, 35-26, r.Line.Len())
	assert.Equal(t, 0, r.Histogram.Len())
}

func TestMACD_Alignment(t *testing.T) {
	values := wave(120)
	r, err := MACD(values, 12, 26, 9)
	require.NoError(t, err)
	require.False(t, r.Partial())

	assert.Equal(t, 26, r.Line.Offset)
	assert.Equal(t, 120-26, r.Line.Len())
	assert.Equal(t, 26+9, r.Signal.Offset)
	assert.Equal(t, 120-26-9, r.Signal.Len())
	assert.Equal(t, r.Signal.Len(), r.Histogram.Len())

	fast, _ := EMA(values, 12)
	slow, _ := EMA(values, 26)
	for idx := r.Line.Offset; idx < len(values); idx++ {
		f, _ := fast.At(idx)
		s, _ := slow.At(idx)
		l, ok := r.Line.At(idx)
		require.True(t, ok)
		assert.InDelta(t, f-s, l, 1e-12)
	}
	for idx := r.Histogram.Offset; idx < len(values); idx++ {
		l, _ := r.Line.At(idx)
		s, _ := r.Signal.At(idx)
		h, _ := r.Histogram.At(idx)
		assert.InDelta(t, l-s, h, 1e-12)
	}
}
