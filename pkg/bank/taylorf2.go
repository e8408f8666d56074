package bank

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/kacperjurak/gowavebank"
	"github.com/kacperjurak/gowavebank/pkg/models"
)

// geometrized solar mass in seconds, G*Msun/c^3.
const solarMassSeconds = 4.925491025543576e-6

// TaylorF2Provider generates stationary-phase-approximation inspiral
// waveforms directly in the frequency domain: amplitude Mc^(5/6) f^(-7/6)
// and a post-Newtonian phase truncated at 1.5PN, with the leading aligned
// spin-orbit contribution. Deterministic and allocation-light; the overall
// amplitude scale is arbitrary since all downstream overlaps are normalized.
type TaylorF2Provider struct{}

func (TaylorF2Provider) Generate(tmpl models.Template, deltaF, fLow, fHigh float64) (*gowavebank.FrequencySeries, error) {
	if tmpl.Mass1 <= 0 || tmpl.Mass2 <= 0 {
		return nil, fmt.Errorf("taylorf2: masses must be positive, got m1=%g m2=%g", tmpl.Mass1, tmpl.Mass2)
	}
	if deltaF <= 0 {
		return nil, fmt.Errorf("taylorf2: delta_f must be positive, got %g", deltaF)
	}
	if fLow <= 0 || fHigh <= fLow {
		return nil, fmt.Errorf("taylorf2: bad frequency range [%g, %g]", fLow, fHigh)
	}

	m := tmpl.Mass1 + tmpl.Mass2
	eta := tmpl.Mass1 * tmpl.Mass2 / (m * m)
	mSec := m * solarMassSeconds
	ampScale := math.Pow(gowavebank.ChirpMass(tmpl.Mass1, tmpl.Mass2), 5.0/6.0)

	// Leading aligned spin-orbit coefficient entering at 1.5PN.
	beta := 113.0 / 12.0 * (tmpl.Mass1*tmpl.Spin1z + tmpl.Mass2*tmpl.Spin2z) / m

	start := int(math.Round(fLow / deltaF))
	end := int(math.Round(fHigh / deltaF))
	out := &gowavebank.FrequencySeries{
		Data:       make([]complex128, end-start+1),
		DeltaF:     deltaF,
		StartIndex: start,
	}

	for i := range out.Data {
		f := float64(start+i) * deltaF
		v := math.Cbrt(math.Pi * mSec * f)
		v2 := v * v
		v5 := v2 * v2 * v
		psi := -math.Pi/4 + 3.0/(128.0*eta*v5)*
			(1+(3715.0/756.0+55.0/9.0*eta)*v2+(4*beta-16*math.Pi)*v2*v)
		out.Data[i] = cmplx.Rect(ampScale*math.Pow(f, -7.0/6.0), -psi)
	}
	return out, nil
}
