package gowavebank

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Supported point-selection strategies.
const (
	AlgMassBased      = "mass-based"
	AlgLocalFreqDeriv = "local-freq-deriv"
)

// Algorithms returns the closed set of supported strategy names.
func Algorithms() []string {
	return []string{AlgMassBased, AlgLocalFreqDeriv}
}

// SamplePointSet is an ordered sequence of strictly increasing frequencies in
// [fLow, fHigh]. A valid set always includes both endpoints and keeps a
// minimum spacing of one frequency-resolution step.
type SamplePointSet []float64

// Validate checks the point-set invariant against the given range and
// resolution.
func (p SamplePointSet) Validate(fLow, fHigh, deltaF float64) error {
	if len(p) < 2 {
		return fmt.Errorf("%w: point set needs at least the two endpoints, got %d points", ErrInvalidParameter, len(p))
	}
	if p[0] != fLow || p[len(p)-1] != fHigh {
		return fmt.Errorf("%w: point set must span [%g, %g], got [%g, %g]",
			ErrInvalidParameter, fLow, fHigh, p[0], p[len(p)-1])
	}
	for i := 1; i < len(p); i++ {
		// Relative slack absorbs the float drift of df-snapped walks.
		if p[i]-p[i-1] < deltaF*(1-1e-9) {
			return fmt.Errorf("%w: points %g and %g closer than resolution %g",
				ErrInvalidParameter, p[i-1], p[i], deltaF)
		}
	}
	return nil
}

// SelectorContext carries everything a point-selection strategy may consult:
// the sampled waveform itself, the template masses, the target range and the
// minimum time-equivalent spacing.
type SelectorContext struct {
	Series    *FrequencySeries
	Mass1     float64
	Mass2     float64
	FLow      float64
	FHigh     float64
	MinSeglen float64
}

// SelectPoints produces the initial candidate point set for one waveform
// using the named strategy. Both strategies walk frequency upward from FLow,
// spacing consecutive points by the reciprocal of a local signal-duration
// estimate, snapped to a multiple of the series resolution; they differ only
// in where that duration estimate comes from.
func SelectPoints(algorithm string, ctx SelectorContext) (SamplePointSet, error) {
	switch algorithm {
	case AlgMassBased:
		return massBasedPoints(ctx)
	case AlgLocalFreqDeriv:
		return localFreqDerivPoints(ctx)
	default:
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownAlgorithm, algorithm, Algorithms())
	}
}

// massBasedPoints spaces points from the closed-form chirp-time model: the
// long-lived low-frequency cycles get the dense sampling and the spacing
// opens up as the remaining chirp time shrinks toward high frequency.
func massBasedPoints(ctx SelectorContext) (SamplePointSet, error) {
	if err := checkRange(ctx); err != nil {
		return nil, err
	}
	df := ctx.Series.DeltaF
	pts := SamplePointSet{ctx.FLow}
	for f := ctx.FLow; ; {
		f += stepFor(ChirpTime(f, ctx.Mass1, ctx.Mass2), ctx.MinSeglen, df)
		// Interior points stop one full step below FHigh so appending the
		// endpoint cannot undercut the minimum spacing.
		if f > ctx.FHigh-df {
			break
		}
		pts = append(pts, f)
	}
	return append(pts, ctx.FHigh), nil
}

// localFreqDerivPoints derives the local duration estimate from the sampled
// waveform's own phase: tau(f) ~ |dphi/df| / (2*pi), the stationary-phase
// relation. This tracks the actual waveform rather than the point-particle
// model, at the cost of a full-grid phase differentiation.
func localFreqDerivPoints(ctx SelectorContext) (SamplePointSet, error) {
	if err := checkRange(ctx); err != nil {
		return nil, err
	}
	s := ctx.Series
	df := s.DeltaF
	tau := localChirpTimes(s)

	pts := SamplePointSet{ctx.FLow}
	for f := ctx.FLow; ; {
		i := s.BinIndex(f)
		if i < 0 {
			i = 0
		} else if i >= len(tau) {
			i = len(tau) - 1
		}
		f += stepFor(tau[i], ctx.MinSeglen, df)
		if f > ctx.FHigh-df {
			break
		}
		pts = append(pts, f)
	}
	return append(pts, ctx.FHigh), nil
}

func checkRange(ctx SelectorContext) error {
	if ctx.FHigh <= ctx.FLow {
		return fmt.Errorf("%w: f_high %g <= f_low %g", ErrEmptyRange, ctx.FHigh, ctx.FLow)
	}
	if ctx.FHigh-ctx.FLow < ctx.Series.DeltaF {
		return fmt.Errorf("%w: range [%g, %g] narrower than resolution %g",
			ErrEmptyRange, ctx.FLow, ctx.FHigh, ctx.Series.DeltaF)
	}
	return nil
}

// stepFor converts a local duration estimate into a frequency step: the
// reciprocal of the duration, floored by minSeglen, snapped to the nearest
// positive multiple of df.
func stepFor(tau, minSeglen, df float64) float64 {
	if tau < minSeglen {
		tau = minSeglen
	}
	n := math.Round(1 / (tau * df))
	if n < 1 {
		n = 1
	}
	return n * df
}

// localChirpTimes estimates |dphi/df|/(2*pi) per bin via central differences
// of the unwrapped phase (one-sided at the edges).
func localChirpTimes(s *FrequencySeries) []float64 {
	n := s.Len()
	phase := make([]float64, n)
	for i, z := range s.Data {
		phase[i] = cmplx.Phase(z)
	}
	UnwrapPhase(phase)

	tau := make([]float64, n)
	twoPi := 2 * math.Pi
	for i := range tau {
		var d float64
		switch {
		case i == 0:
			d = (phase[1] - phase[0]) / s.DeltaF
		case i == n-1:
			d = (phase[n-1] - phase[n-2]) / s.DeltaF
		default:
			d = (phase[i+1] - phase[i-1]) / (2 * s.DeltaF)
		}
		tau[i] = math.Abs(d) / twoPi
	}
	return tau
}
