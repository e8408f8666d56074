package gowavebank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacperjurak/gowavebank"
	"github.com/kacperjurak/gowavebank/pkg/bank"
	"github.com/kacperjurak/gowavebank/pkg/models"
)

// genWaveform generates the dense reference waveform the way the batch
// driver does: one resolution step below fLow, up to fHigh.
func genWaveform(t *testing.T, m1, m2, deltaF, fLow, fHigh float64) *gowavebank.FrequencySeries {
	t.Helper()
	s, err := bank.TaylorF2Provider{}.Generate(
		models.Template{Mass1: m1, Mass2: m2}, deltaF, fLow-deltaF, fHigh)
	require.NoError(t, err)
	return s
}

func selectorContext(s *gowavebank.FrequencySeries) gowavebank.SelectorContext {
	return gowavebank.SelectorContext{
		Series:    s,
		Mass1:     30,
		Mass2:     30,
		FLow:      20,
		FHigh:     2048,
		MinSeglen: 0.02,
	}
}

func TestSelectPoints_BothStrategiesHonorInvariant(t *testing.T) {
	s := genWaveform(t, 30, 30, 0.25, 20, 2048)
	for _, alg := range gowavebank.Algorithms() {
		t.Run(alg, func(t *testing.T) {
			pts, err := gowavebank.SelectPoints(alg, selectorContext(s))
			require.NoError(t, err)
			assert.NoError(t, pts.Validate(20, 2048, 0.25))
		})
	}
}

func TestSelectPoints_MassBasedIsSparse(t *testing.T) {
	s := genWaveform(t, 30, 30, 0.25, 20, 2048)
	pts, err := gowavebank.SelectPoints(gowavebank.AlgMassBased, selectorContext(s))
	require.NoError(t, err)

	// Tens of points against thousands of grid bins.
	bins := int((2048 - 20) / 0.25)
	assert.Greater(t, bins, 8000)
	assert.Less(t, len(pts), 200)
	assert.GreaterOrEqual(t, len(pts), 10)
}

func TestSelectPoints_DensifiesTowardLowFrequency(t *testing.T) {
	s := genWaveform(t, 30, 30, 0.25, 20, 2048)
	pts, err := gowavebank.SelectPoints(gowavebank.AlgMassBased, selectorContext(s))
	require.NoError(t, err)

	first := pts[1] - pts[0]
	last := pts[len(pts)-2] - pts[len(pts)-3]
	assert.Less(t, first, last, "slowly evolving low frequencies get the dense sampling")
}

func TestSelectPoints_LocalFreqDerivTracksMassModel(t *testing.T) {
	s := genWaveform(t, 30, 30, 0.25, 20, 2048)
	massPts, err := gowavebank.SelectPoints(gowavebank.AlgMassBased, selectorContext(s))
	require.NoError(t, err)
	localPts, err := gowavebank.SelectPoints(gowavebank.AlgLocalFreqDeriv, selectorContext(s))
	require.NoError(t, err)

	// The waveform-derived estimate differs from the point-particle model
	// by post-Newtonian corrections, not by orders of magnitude.
	ratio := float64(len(localPts)) / float64(len(massPts))
	assert.Greater(t, ratio, 0.3)
	assert.Less(t, ratio, 3.0)
}

func TestSelectPoints_FinalIntervalKeepsMinimumSpacing(t *testing.T) {
	s := genWaveform(t, 30, 30, 0.25, 20, 2048)
	ctx := selectorContext(s)
	// A large MinSeglen forces single-bin steps, and an upper cutoff 0.6*df
	// off that lattice would leave a sub-resolution final interval if the
	// walk kept its last interior point.
	ctx.MinSeglen = 4
	ctx.FHigh = 30.15
	pts, err := gowavebank.SelectPoints(gowavebank.AlgMassBased, ctx)
	require.NoError(t, err)

	require.NoError(t, pts.Validate(20, 30.15, 0.25))
	gap := pts[len(pts)-1] - pts[len(pts)-2]
	assert.GreaterOrEqual(t, gap, 0.25)
}

func TestSelectPoints_UnknownAlgorithm(t *testing.T) {
	s := genWaveform(t, 30, 30, 0.25, 20, 2048)
	_, err := gowavebank.SelectPoints("bogus", selectorContext(s))
	assert.ErrorIs(t, err, gowavebank.ErrUnknownAlgorithm)
}

func TestSelectPoints_EmptyRange(t *testing.T) {
	s := genWaveform(t, 30, 30, 0.25, 20, 2048)
	ctx := selectorContext(s)
	ctx.FHigh = ctx.FLow
	_, err := gowavebank.SelectPoints(gowavebank.AlgMassBased, ctx)
	assert.ErrorIs(t, err, gowavebank.ErrEmptyRange)

	ctx.FHigh = ctx.FLow - 5
	_, err = gowavebank.SelectPoints(gowavebank.AlgLocalFreqDeriv, ctx)
	assert.ErrorIs(t, err, gowavebank.ErrEmptyRange)
}

func TestSamplePointSet_Validate(t *testing.T) {
	assert.NoError(t, gowavebank.SamplePointSet{20, 21, 2048}.Validate(20, 2048, 0.25))
	assert.Error(t, gowavebank.SamplePointSet{20}.Validate(20, 2048, 0.25))
	assert.Error(t, gowavebank.SamplePointSet{20, 2047}.Validate(20, 2048, 0.25))
	assert.Error(t, gowavebank.SamplePointSet{20, 20.1, 2048}.Validate(20, 2048, 0.25))
}
