package gowavebank

import (
	"fmt"
	"math"
)

// solarMassSeconds is G*Msun/c^3, the geometrized solar mass in seconds.
const solarMassSeconds = 4.925491025543576e-6

// ChirpMass returns the chirp mass (m1*m2)^(3/5) / (m1+m2)^(1/5) in the same
// units as the inputs.
func ChirpMass(m1, m2 float64) float64 {
	return math.Pow(m1*m2, 3.0/5.0) / math.Pow(m1+m2, 1.0/5.0)
}

// ChirpTime returns the leading-order post-Newtonian time to coalescence, in
// seconds, of a binary with component masses m1, m2 (solar masses) measured
// from frequency f (Hz):
//
//	tau(f) = 5/256 * (Mc*G*Msun/c^3)^(-5/3) * (pi*f)^(-8/3)
//
// It is monotonically decreasing in f and increasing in total mass. Inputs
// are assumed positive; see EstimateSegment for the validated entry point.
func ChirpTime(f, m1, m2 float64) float64 {
	mc := ChirpMass(m1, m2) * solarMassSeconds
	return 5.0 / 256.0 * math.Pow(mc, -5.0/3.0) * math.Pow(math.Pi*f, -8.0/3.0)
}

// EstimateSegment derives an FFT-friendly time-domain segment length, in
// seconds, for a template observed from fLow upward:
//
//	seglen = 4 * max(4/sampleRate, 2^ceil(log2(tau(fLow))))
//
// The power-of-two rounding keeps sampleRate*seglen an integer and a
// convenient FFT size, the factor 4 is a safety margin, and the floor
// guarantees at least two samples at the target rate.
func EstimateSegment(m1, m2, fLow, sampleRate float64) (float64, error) {
	if m1 <= 0 || m2 <= 0 {
		return 0, fmt.Errorf("%w: masses must be positive, got m1=%g m2=%g", ErrInvalidParameter, m1, m2)
	}
	if fLow <= 0 {
		return 0, fmt.Errorf("%w: low-frequency cutoff must be positive, got %g", ErrInvalidParameter, fLow)
	}
	if sampleRate <= 0 {
		return 0, fmt.Errorf("%w: sample rate must be positive, got %g", ErrInvalidParameter, sampleRate)
	}
	seg := math.Exp2(math.Ceil(math.Log2(ChirpTime(fLow, m1, m2))))
	if floor := 4 / sampleRate; seg < floor {
		seg = floor
	}
	return 4 * seg, nil
}
