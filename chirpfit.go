package gowavebank

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"
)

// ChirpFit is the result of fitting the power-law model tau(f) = A*f^p to
// the stationary-phase duration estimate of a sampled waveform. For an
// inspiral-dominated signal the exponent recovers -8/3 and the amplitude maps
// back to an effective chirp mass, which makes the fit a cheap consistency
// check between a template's metadata and the waveform actually generated
// for it.
type ChirpFit struct {
	Amplitude float64
	Exponent  float64
	ChirpMass float64
	Residual  float64
}

// newtonianExponent is the leading-order frequency exponent of the chirp
// time-frequency relation.
const newtonianExponent = -8.0 / 3.0

// FitChirpTime runs a Levenberg-Marquardt fit of {A, p} against the per-bin
// local chirp times of series restricted to [fLow, fHigh]. Residuals are
// relative, so the steep low-frequency bins do not dominate the fit.
func FitChirpTime(series *FrequencySeries, fLow, fHigh float64) (fit ChirpFit, err error) {
	if fHigh <= fLow {
		return ChirpFit{}, fmt.Errorf("%w: f_high %g <= f_low %g", ErrEmptyRange, fHigh, fLow)
	}
	lo := series.BinIndex(fLow)
	hi := series.BinIndex(fHigh)
	if lo < 0 || hi >= series.Len() || hi-lo < 3 {
		return ChirpFit{}, fmt.Errorf("%w: fit range [%g, %g] outside waveform support", ErrInvalidParameter, fLow, fHigh)
	}

	tau := localChirpTimes(series)
	var freqs, meas []float64
	for i := lo; i <= hi; i++ {
		if tau[i] <= 0 {
			continue
		}
		freqs = append(freqs, series.Frequency(i))
		meas = append(meas, tau[i])
	}
	if len(meas) < 3 {
		return ChirpFit{}, fmt.Errorf("%w: too few usable bins for the chirp-time fit", ErrInvalidParameter)
	}

	residuals := func(dst, x []float64) {
		a, p := x[0], x[1]
		for i, f := range freqs {
			dst[i] = (a*math.Pow(f, p) - meas[i]) / meas[i]
		}
	}

	init := []float64{meas[0] * math.Pow(freqs[0], -newtonianExponent), newtonianExponent}
	jac := lm.NumJac{Func: residuals}
	problem := lm.LMProblem{
		Dim:        2,
		Size:       len(meas),
		Func:       residuals,
		Jac:        jac.Jac,
		InitParams: init,
		Tau:        1e-13,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	// The LM implementation panics on singular steps instead of erroring.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gowavebank: chirp-time fit failed: %v", r)
		}
	}()

	res, lmErr := lm.LM(problem, &lm.Settings{Iterations: 200, ObjectiveTol: 1e-16})
	if lmErr != nil {
		return ChirpFit{}, fmt.Errorf("gowavebank: chirp-time fit: %w", lmErr)
	}

	fit = ChirpFit{Amplitude: res.X[0], Exponent: res.X[1]}
	dst := make([]float64, len(meas))
	residuals(dst, res.X)
	for _, d := range dst {
		fit.Residual += d * d
	}
	fit.Residual /= float64(len(dst))
	fit.ChirpMass = chirpMassFromAmplitude(fit.Amplitude)
	return fit, nil
}

// chirpMassFromAmplitude inverts tau(f) = 5/256 (Mc*G*Msun/c^3)^(-5/3)
// (pi f)^(-8/3) for Mc in solar masses, given the fitted power-law amplitude.
func chirpMassFromAmplitude(a float64) float64 {
	if a <= 0 {
		return math.NaN()
	}
	return math.Pow(5.0/(256.0*a), 3.0/5.0) * math.Pow(math.Pi, -8.0/5.0) / solarMassSeconds
}
