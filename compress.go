package gowavebank

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/interp"
)

// CompressedWaveform is the sparse representation of one template: the
// retained sample points with the amplitude and unwrapped phase at each, and
// the reconstruction mismatch achieved. Immutable once returned.
type CompressedWaveform struct {
	SamplePoints SamplePointSet
	Amplitude    []float64
	Phase        []float64
	Mismatch     float64
	Converged    bool
}

// Scratch holds the full-resolution working buffers of one compression.
// Reusing one Scratch across templates avoids re-allocating the largest
// buffers in the batch loop. A Scratch must not be shared between
// concurrently running compressions; the zero value is ready to use.
type Scratch struct {
	amp     []float64
	phase   []float64
	recon   []complex128
	ptAmp   []float64
	ptPhase []float64
}

func (sc *Scratch) grow(n int) {
	if cap(sc.amp) < n {
		sc.amp = make([]float64, n)
		sc.phase = make([]float64, n)
		sc.recon = make([]complex128, n)
	}
	sc.amp = sc.amp[:n]
	sc.phase = sc.phase[:n]
	sc.recon = sc.recon[:n]
}

// Compress reduces a full-resolution waveform to a sparse point set whose
// interpolated reconstruction stays within the given mismatch bound.
//
// Greedy refinement with a global stopping criterion: decimate the waveform
// to the current points, reconstruct the full grid by interpolating amplitude
// and unwrapped phase independently, measure the mismatch, and while it
// exceeds precision insert one point bisecting the interval with the largest
// integrated reconstruction error. The best point set seen is tracked
// throughout, so the reported mismatch never worsens across iterations.
//
// The loop terminates when the bound is met, when no interval wide enough to
// bisect remains, or when an iteration fails to improve the mismatch. In the
// latter two cases the best achieved result is returned together with
// ErrNonConvergent; the CompressedWaveform is still valid.
//
// scratch may be nil; passing one amortizes buffer allocation across
// templates. The input series is never modified.
func Compress(series *FrequencySeries, initial SamplePointSet, precision float64, kind string, scratch *Scratch) (CompressedWaveform, error) {
	if precision <= 0 {
		return CompressedWaveform{}, fmt.Errorf("%w: precision must be positive, got %g", ErrInvalidParameter, precision)
	}
	if _, err := NewInterpolator(kind); err != nil {
		return CompressedWaveform{}, err
	}
	if len(initial) < 2 {
		return CompressedWaveform{}, fmt.Errorf("%w: need at least two sample points, got %d", ErrInvalidParameter, len(initial))
	}
	if scratch == nil {
		scratch = new(Scratch)
	}

	n := series.Len()
	scratch.grow(n)
	amplitudePhase(series.Data, scratch.amp, scratch.phase)

	i0 := series.BinIndex(initial[0])
	i1 := series.BinIndex(initial[len(initial)-1])
	if i0 < 0 || i1 >= n || i1 <= i0 {
		return CompressedWaveform{}, fmt.Errorf("%w: points [%g, %g] outside waveform support [%g, %g]",
			ErrInvalidParameter, initial[0], initial[len(initial)-1], series.Frequency(0), series.Frequency(n-1))
	}
	orig := series.Data[i0 : i1+1]
	recon := scratch.recon[i0 : i1+1]

	pts := append([]float64(nil), initial...)
	bins := make([]int, 0, len(pts)+16)
	for _, p := range pts {
		bins = append(bins, series.BinIndex(p))
	}

	var (
		best         CompressedWaveform
		lastMismatch = math.Inf(1)
	)
	best.Mismatch = math.Inf(1)

	for iter := 0; ; iter++ {
		ampPred, phasePred, err := fitPoints(kind, pts, bins, scratch)
		if err != nil {
			return CompressedWaveform{}, err
		}
		reconstructInto(recon, ampPred, phasePred, series.DeltaF, series.StartIndex+i0)

		mismatch := 1 - overlapData(orig, recon)
		if mismatch < 0 {
			mismatch = 0
		}
		if mismatch < best.Mismatch {
			best = snapshot(pts, scratch, mismatch)
		}

		if best.Mismatch <= precision {
			best.Converged = true
			return best, nil
		}
		if iter > 0 && mismatch >= lastMismatch {
			// Degenerate refinement: the new point did not help. Surface it.
			return best, fmt.Errorf("%w: stalled at mismatch %.6e with %d points (target %.6e)",
				ErrNonConvergent, best.Mismatch, len(pts), precision)
		}
		lastMismatch = mismatch

		k := worstInterval(orig, recon, bins, i0)
		if k < 0 {
			return best, fmt.Errorf("%w: no insertable interval left at mismatch %.6e (target %.6e)",
				ErrNonConvergent, best.Mismatch, precision)
		}
		mid := (bins[k] + bins[k+1]) / 2
		pts = insertAt(pts, k+1, series.Frequency(mid))
		bins = insertIntAt(bins, k+1, mid)
	}
}

// Decompress rebuilds a full-resolution frequency series from a compressed
// record, using the same interpolation kind that produced it. The returned
// series spans [points[0], points[last]] at resolution deltaF; running
// Mismatch against the original over that span reproduces the stored value.
func Decompress(points SamplePointSet, amplitude, phase []float64, kind string, deltaF float64) (*FrequencySeries, error) {
	if deltaF <= 0 {
		return nil, fmt.Errorf("%w: delta_f must be positive, got %g", ErrInvalidParameter, deltaF)
	}
	if len(points) < 2 || len(amplitude) != len(points) || len(phase) != len(points) {
		return nil, fmt.Errorf("%w: points/amplitude/phase lengths %d/%d/%d",
			ErrInvalidParameter, len(points), len(amplitude), len(phase))
	}
	ampPred, err := NewInterpolator(kind)
	if err != nil {
		return nil, err
	}
	phasePred, _ := NewInterpolator(kind)
	if err := ampPred.Fit(points, amplitude); err != nil {
		return nil, fmt.Errorf("gowavebank: amplitude fit: %w", err)
	}
	if err := phasePred.Fit(points, phase); err != nil {
		return nil, fmt.Errorf("gowavebank: phase fit: %w", err)
	}

	start := int(math.Round(points[0] / deltaF))
	end := int(math.Round(points[len(points)-1] / deltaF))
	out := &FrequencySeries{
		Data:       make([]complex128, end-start+1),
		DeltaF:     deltaF,
		StartIndex: start,
	}
	reconstructInto(out.Data, ampPred, phasePred, deltaF, start)
	return out, nil
}

func fitPoints(kind string, pts []float64, bins []int, scratch *Scratch) (interp.Predictor, interp.Predictor, error) {
	scratch.ptAmp = scratch.ptAmp[:0]
	scratch.ptPhase = scratch.ptPhase[:0]
	for _, b := range bins {
		scratch.ptAmp = append(scratch.ptAmp, scratch.amp[b])
		scratch.ptPhase = append(scratch.ptPhase, scratch.phase[b])
	}
	ampPred, _ := NewInterpolator(kind)
	phasePred, _ := NewInterpolator(kind)
	if err := ampPred.Fit(pts, scratch.ptAmp); err != nil {
		return nil, nil, fmt.Errorf("gowavebank: amplitude fit: %w", err)
	}
	if err := phasePred.Fit(pts, scratch.ptPhase); err != nil {
		return nil, nil, fmt.Errorf("gowavebank: phase fit: %w", err)
	}
	return ampPred, phasePred, nil
}

// reconstructInto recombines interpolated amplitude and phase into complex
// samples on the uniform grid starting at absolute bin startIndex.
func reconstructInto(dst []complex128, ampPred, phasePred interp.Predictor, deltaF float64, startIndex int) {
	for i := range dst {
		f := float64(startIndex+i) * deltaF
		dst[i] = cmplx.Rect(ampPred.Predict(f), phasePred.Predict(f))
	}
}

// worstInterval returns the index k of the point interval [k, k+1] with the
// largest integrated squared reconstruction error among those still wide
// enough to bisect (at least two bins apart), or -1 if none remain. orig and
// recon start at absolute bin offset i0 relative to the bins values.
func worstInterval(orig, recon []complex128, bins []int, i0 int) int {
	worst := -1
	worstErr := 0.0
	for k := 0; k+1 < len(bins); k++ {
		lo, hi := bins[k], bins[k+1]
		if hi-lo < 2 {
			continue
		}
		var e float64
		for b := lo; b <= hi; b++ {
			d := orig[b-i0] - recon[b-i0]
			e += real(d)*real(d) + imag(d)*imag(d)
		}
		if worst < 0 || e > worstErr {
			worst = k
			worstErr = e
		}
	}
	return worst
}

func snapshot(pts []float64, scratch *Scratch, mismatch float64) CompressedWaveform {
	return CompressedWaveform{
		SamplePoints: append(SamplePointSet(nil), pts...),
		Amplitude:    append([]float64(nil), scratch.ptAmp...),
		Phase:        append([]float64(nil), scratch.ptPhase...),
		Mismatch:     mismatch,
	}
}

func insertAt(s []float64, i int, v float64) []float64 {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertIntAt(s []int, i int, v int) []int {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
