package gowavebank_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacperjurak/gowavebank"
)

func TestEstimateSegment_ReferenceScenario(t *testing.T) {
	// (30, 30) solar masses at f_low = 20 Hz lasts just under a second, so
	// the power-of-two rounding lands on 1 s and the safety factor makes 4 s.
	seglen, err := gowavebank.EstimateSegment(30, 30, 20, 4096)
	require.NoError(t, err)
	assert.Equal(t, 4.0, seglen)

	// seglen must always be a power-of-two multiple of 4/sample_rate.
	ratio := seglen / (4.0 / 4096.0)
	assert.Equal(t, math.Trunc(math.Log2(ratio)), math.Log2(ratio))
}

func TestEstimateSegment_MonotoneInMass(t *testing.T) {
	light, err := gowavebank.EstimateSegment(1.4, 1.4, 20, 4096)
	require.NoError(t, err)
	heavy, err := gowavebank.EstimateSegment(30, 30, 20, 4096)
	require.NoError(t, err)
	assert.Greater(t, light, heavy, "lighter binaries last longer")
}

func TestEstimateSegment_FloorsAtTwoSamples(t *testing.T) {
	// Very heavy and very high cutoff: the chirp time is tiny, but the
	// segment still spans at least 2 samples before the safety factor.
	seglen, err := gowavebank.EstimateSegment(500, 500, 1000, 4096)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seglen, 4*(4.0/4096.0))
}

func TestEstimateSegment_InvalidParameters(t *testing.T) {
	cases := []struct {
		name                     string
		m1, m2, fLow, sampleRate float64
	}{
		{"zero mass1", 0, 30, 20, 4096},
		{"negative mass2", 30, -1, 20, 4096},
		{"zero f_low", 30, 30, 0, 4096},
		{"negative sample rate", 30, 30, 20, -4096},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gowavebank.EstimateSegment(tc.m1, tc.m2, tc.fLow, tc.sampleRate)
			assert.ErrorIs(t, err, gowavebank.ErrInvalidParameter)
		})
	}
}

func TestChirpTime_MonotoneDecreasingInFrequency(t *testing.T) {
	assert.Greater(t,
		gowavebank.ChirpTime(20, 1.4, 1.4),
		gowavebank.ChirpTime(40, 1.4, 1.4))
}
