package gowavebank

import (
	"fmt"
	"math"
	"math/cmplx"
)

// FrequencySeries is a uniformly sampled complex-valued function of
// frequency. Data[i] is the sample at frequency (StartIndex+i)*DeltaF.
type FrequencySeries struct {
	Data       []complex128
	DeltaF     float64
	StartIndex int
}

func (s *FrequencySeries) Len() int {
	return len(s.Data)
}

// Frequency returns the physical frequency of slice index i.
func (s *FrequencySeries) Frequency(i int) float64 {
	return float64(s.StartIndex+i) * s.DeltaF
}

// BinIndex returns the slice index of the bin nearest to frequency f.
// The result may fall outside [0, Len()) if f is outside the series support.
func (s *FrequencySeries) BinIndex(f float64) int {
	return int(math.Round(f/s.DeltaF)) - s.StartIndex
}

// Slice returns a view of the series restricted to [fLow, fHigh], snapped to
// the nearest bins. The view shares the underlying data.
func (s *FrequencySeries) Slice(fLow, fHigh float64) (*FrequencySeries, error) {
	lo := s.BinIndex(fLow)
	hi := s.BinIndex(fHigh)
	if lo < 0 || hi >= s.Len() || hi < lo {
		return nil, fmt.Errorf("%w: slice [%g, %g] outside series support [%g, %g]",
			ErrInvalidParameter, fLow, fHigh, s.Frequency(0), s.Frequency(s.Len()-1))
	}
	return &FrequencySeries{
		Data:       s.Data[lo : hi+1],
		DeltaF:     s.DeltaF,
		StartIndex: s.StartIndex + lo,
	}, nil
}

// Overlap computes the normalized frequency-domain inner product
// Re<a,b> / (|a||b|) of two series on identical grids. The spectrum is taken
// as flat (unweighted); callers that want a noise-weighted overlap must
// pre-whiten both series. The result lies in [-1, 1].
func Overlap(a, b *FrequencySeries) (float64, error) {
	if a.Len() != b.Len() || a.DeltaF != b.DeltaF || a.StartIndex != b.StartIndex {
		return 0, fmt.Errorf("%w: overlap requires identical frequency grids", ErrInvalidParameter)
	}
	return overlapData(a.Data, b.Data), nil
}

// Mismatch is 1 - Overlap, clamped at zero against round-off. A value of 0
// means the two series are identical up to an overall positive scale.
func Mismatch(a, b *FrequencySeries) (float64, error) {
	o, err := Overlap(a, b)
	if err != nil {
		return 0, err
	}
	m := 1 - o
	if m < 0 {
		m = 0
	}
	return m, nil
}

func overlapData(a, b []complex128) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := a[i], b[i]
		dot += real(x)*real(y) + imag(x)*imag(y)
		na += real(x)*real(x) + imag(x)*imag(x)
		nb += real(y)*real(y) + imag(y)*imag(y)
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / math.Sqrt(na*nb)
}

// UnwrapPhase removes 2*pi jumps from a sampled phase sequence in place and
// returns it. Interpolating a wrapped phase puts spurious oscillations into
// every reconstructed bin near a branch cut, so all phase handling in this
// package goes through the unwrapped representation.
func UnwrapPhase(phase []float64) []float64 {
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		d := phase[i] + offset - phase[i-1]
		if d > math.Pi {
			offset -= 2 * math.Pi * math.Round(d/(2*math.Pi))
		} else if d < -math.Pi {
			offset += 2 * math.Pi * math.Round(-d/(2*math.Pi))
		}
		phase[i] += offset
	}
	return phase
}

// amplitudePhase fills amp and phase (both len(data) long) with the modulus
// and unwrapped argument of data.
func amplitudePhase(data []complex128, amp, phase []float64) {
	for i, z := range data {
		amp[i] = cmplx.Abs(z)
		phase[i] = cmplx.Phase(z)
	}
	UnwrapPhase(phase)
}
