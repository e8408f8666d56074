package gowavebank_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacperjurak/gowavebank"
)

func TestUnwrapPhase_RemovesBranchCuts(t *testing.T) {
	// A steadily decreasing phase, wrapped into (-pi, pi].
	n := 200
	wrapped := make([]float64, n)
	for i := range wrapped {
		phi := -0.7 * float64(i)
		wrapped[i] = math.Atan2(math.Sin(phi), math.Cos(phi))
	}
	unwrapped := gowavebank.UnwrapPhase(wrapped)
	for i := range unwrapped {
		assert.InDelta(t, -0.7*float64(i), unwrapped[i], 1e-9)
	}
}

func TestOverlap_IdenticalSeries(t *testing.T) {
	s := rampSeries(64)
	o, err := gowavebank.Overlap(s, s)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, o, 1e-12)

	m, err := gowavebank.Mismatch(s, s)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, m, 1e-12)
}

func TestOverlap_ScaleInvariant(t *testing.T) {
	a := rampSeries(64)
	b := rampSeries(64)
	for i := range b.Data {
		b.Data[i] *= 3.5
	}
	o, err := gowavebank.Overlap(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, o, 1e-12)
}

func TestOverlap_AntiAlignedSeries(t *testing.T) {
	a := rampSeries(64)
	b := rampSeries(64)
	for i := range b.Data {
		b.Data[i] = -b.Data[i]
	}
	m, err := gowavebank.Mismatch(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m, 1e-12)
}

func TestOverlap_GridMismatch(t *testing.T) {
	a := rampSeries(64)
	b := rampSeries(32)
	_, err := gowavebank.Overlap(a, b)
	assert.ErrorIs(t, err, gowavebank.ErrInvalidParameter)
}

func TestSlice_SharesDataAndShiftsIndex(t *testing.T) {
	s := rampSeries(64)
	view, err := s.Slice(s.Frequency(10), s.Frequency(20))
	require.NoError(t, err)
	assert.Equal(t, 11, view.Len())
	assert.Equal(t, s.Frequency(10), view.Frequency(0))

	_, err = s.Slice(s.Frequency(10), s.Frequency(100))
	assert.ErrorIs(t, err, gowavebank.ErrInvalidParameter)
}

// rampSeries builds a smooth test series with both amplitude and phase
// evolution.
func rampSeries(n int) *gowavebank.FrequencySeries {
	s := &gowavebank.FrequencySeries{
		Data:       make([]complex128, n),
		DeltaF:     0.25,
		StartIndex: 80,
	}
	for i := range s.Data {
		s.Data[i] = cmplx.Rect(1+float64(i)/float64(n), 0.05*float64(i))
	}
	return s
}
