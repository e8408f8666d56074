package gowavebank

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Supported interpolation kinds. Amplitude and phase are interpolated as
// independent real-valued sequences with the same kind.
const (
	InterpLinear = "linear"
	InterpCubic  = "cubic"
	InterpAkima  = "akima"
	InterpPCHIP  = "pchip"
)

// InterpolationKinds returns the closed set of supported kind names.
func InterpolationKinds() []string {
	return []string{InterpLinear, InterpCubic, InterpAkima, InterpPCHIP}
}

// NewInterpolator maps a kind name to a fresh gonum predictor. Each call
// returns an independent instance; Fit stores state, so amplitude and phase
// need one each.
func NewInterpolator(kind string) (interp.FittablePredictor, error) {
	switch kind {
	case InterpLinear:
		return &interp.PiecewiseLinear{}, nil
	case InterpCubic:
		return &interp.NaturalCubic{}, nil
	case InterpAkima:
		return &interp.AkimaSpline{}, nil
	case InterpPCHIP:
		return &interp.FritschButland{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownInterpolation, kind, InterpolationKinds())
	}
}
