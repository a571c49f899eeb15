package zigzag

import (
	"errors"
	"testing"

	"screener/internal/indicator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAlternating(t *testing.T, pivots []Pivot) {
	t.Helper()
	for i := 1; i < len(pivots); i++ {
		assert.Less(t, pivots[i-1].Index, pivots[i].Index, "pivot %d out of order", i)
		assert.NotEqual(t, pivots[i-1].Kind, pivots[i].Kind, "pivots %d and %d share a kind", i-1, i)
	}
}

func TestDetect_Threshold(t *testing.T) {
	closes := []float64{100, 110, 99, 112, 98, 115, 100}

	r, err := Detect(closes, 5)
	require.NoError(t, err)

	assert.Equal(t, MethodThreshold, r.Method)
	assert.Equal(t, []Pivot{
		{Index: 1, Price: 110, Kind: High},
		{Index: 2, Price: 99, Kind: Low},
		{Index: 3, Price: 112, Kind: High},
		{Index: 4, Price: 98, Kind: Low},
		{Index: 5, Price: 115, Kind: High},
		{Index: 6, Price: 100, Kind: Low},
	}, r.Pivots)
	assertAlternating(t, r.Pivots)

	require.NotNil(t, r.Channel.Upper)
	require.NotNil(t, r.Channel.Lower)
	assert.False(t, r.Channel.UpperDerived)
	assert.False(t, r.Channel.LowerDerived)
}

func TestDetect_TerminalAppended(t *testing.T) {
	// last confirmed pivot is a low at 98; the close of 102 never reaches
	// the threshold but still becomes the terminal high
	closes := []float64{100, 110, 99, 112, 98, 101, 102}

	r, err := Detect(closes, 5)
	require.NoError(t, err)

	assert.Equal(t, MethodThreshold, r.Method)
	last := r.Pivots[len(r.Pivots)-1]
	assert.Equal(t, Pivot{Index: 6, Price: 102, Kind: High}, last)
	assertAlternating(t, r.Pivots)
}

func TestDetect_TerminalMovesLastPivot(t *testing.T) {
	// drifting lower after the last low: the low follows to the final bar
	closes := []float64{100, 110, 99, 112, 98, 97.5, 96}

	r, err := Detect(closes, 5)
	require.NoError(t, err)

	last := r.Pivots[len(r.Pivots)-1]
	assert.Equal(t, Pivot{Index: 6, Price: 96, Kind: Low}, last)
	assertAlternating(t, r.Pivots)
}

func TestThresholdPivots_Monotonic(t *testing.T) {
	closes := make([]float64, 51)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	pivots := thresholdPivots(closes, 5)
	require.Len(t, pivots, 1)
	assert.Equal(t, Pivot{Index: 50, Price: 150, Kind: High}, pivots[0])
}

func TestDetect_MonotonicFallsBackToEndpoints(t *testing.T) {
	closes := make([]float64, 51)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	r, err := Detect(closes, 5)
	require.NoError(t, err)

	assert.Equal(t, MethodEndpoints, r.Method)
	assertAlternating(t, r.Pivots)

	var highs []Pivot
	for _, p := range r.Pivots {
		if p.Kind == High {
			highs = append(highs, p)
		}
	}
	require.Len(t, highs, 1)
	assert.Equal(t, 50, highs[0].Index)
	assert.Equal(t, Pivot{Index: 0, Price: 100, Kind: Low}, r.Pivots[0])
}

func TestDetect_Falling(t *testing.T) {
	r, err := Detect([]float64{50, 40, 30, 20}, 5)
	require.NoError(t, err)

	assert.Equal(t, MethodEndpoints, r.Method)
	assert.Equal(t, []Pivot{
		{Index: 0, Price: 50, Kind: High},
		{Index: 3, Price: 20, Kind: Low},
	}, r.Pivots)
}

func TestDetect_LocalExtremaFallback(t *testing.T) {
	closes := []float64{10, 11, 10.5, 11.5, 10.8, 12, 11}

	r, err := Detect(closes, 50)
	require.NoError(t, err)

	assert.Equal(t, MethodLocalExtrema, r.Method)
	assert.Equal(t, []Pivot{
		{Index: 1, Price: 11, Kind: High},
		{Index: 2, Price: 10.5, Kind: Low},
		{Index: 3, Price: 11.5, Kind: High},
		{Index: 4, Price: 10.8, Kind: Low},
		{Index: 5, Price: 12, Kind: High},
	}, r.Pivots)
}

func TestLocalExtrema_CollapsesSameKind(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   []Pivot
	}{
		{
			name:   "later high wins",
			closes: []float64{10, 12, 11, 11, 13, 9},
			want:   []Pivot{{Index: 4, Price: 13, Kind: High}},
		},
		{
			name:   "earlier high wins",
			closes: []float64{10, 14, 11, 11, 13, 9},
			want:   []Pivot{{Index: 1, Price: 14, Kind: High}},
		},
		{
			name:   "lower low wins",
			closes: []float64{10, 8, 9, 9, 7, 12},
			want:   []Pivot{{Index: 4, Price: 7, Kind: Low}},
		},
		{
			name:   "alternating untouched",
			closes: []float64{10, 9, 10, 12, 11, 13, 8, 9},
			want: []Pivot{
				{Index: 1, Price: 9, Kind: Low},
				{Index: 3, Price: 12, Kind: High},
				{Index: 4, Price: 11, Kind: Low},
				{Index: 5, Price: 13, Kind: High},
				{Index: 6, Price: 8, Kind: Low},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, localExtrema(tt.closes))
		})
	}
}

func TestLocalExtrema_KeepsMostRecent(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 10
		if i%2 == 1 {
			closes[i] = 12
		}
	}

	pivots := localExtrema(closes)
	require.Len(t, pivots, maxFallbackPivots)
	assert.Equal(t, 27, pivots[0].Index)
	assert.Equal(t, 38, pivots[len(pivots)-1].Index)
	assertAlternating(t, pivots)
}

func TestDetect_Errors(t *testing.T) {
	tests := []struct {
		name      string
		closes    []float64
		threshold float64
		want      error
	}{
		{"zero threshold", []float64{1, 2, 3}, 0, ErrInvalidThreshold},
		{"negative threshold", []float64{1, 2, 3}, -1, ErrInvalidThreshold},
		{"empty", nil, 5, indicator.ErrInsufficientData},
		{"single bar", []float64{1}, 5, indicator.ErrInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Detect(tt.closes, tt.threshold)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
