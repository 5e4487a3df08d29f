package photom

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"sedgen/internal/units"
)

const (
	// abFlamFactor appears in the closed-form AB conversion
	// flam = 10^(-0.4(m-8.9)) / (3.34e4 * lambda^2) with lambda in angstroms.
	abFlamFactor = 3.34e4
	abMagOffset  = 8.9

	stZeroPoint = 21.1
	abZeroPoint = 48.6
)

// CountRate converts magnitudes to detector count rates using the filter's
// calibration tuple. Magnitude values are not range-checked; out-of-family
// inputs propagate numerically.
func CountRate(sys units.MagSystem, mags []float64, p FilterParams) ([]float64, error) {
	out := make([]float64, len(mags))
	switch sys {
	case units.ABMag:
		for i, m := range mags {
			out[i] = math.Pow(10, (m+abZeroPoint)/-2.5) / p.PhotFnu
		}
	case units.STMag:
		for i, m := range mags {
			out[i] = math.Pow(10, (m+stZeroPoint)/-2.5) / p.PhotFlam
		}
	case units.VegaMag:
		for i, m := range mags {
			out[i] = math.Pow(10, (p.ZeroPoint-m)/2.5)
		}
	default:
		return nil, fmt.Errorf("%w %q", units.ErrUnknownSystem, sys)
	}
	return out, nil
}

// ConvertToFlam converts magnitudes to flambda flux densities in
// erg s^-1 cm^-2 A^-1. AB magnitudes use the closed form on the pivot
// wavelength; ST and Vega magnitudes go through the count rate scaled by
// photflam.
func ConvertToFlam(sys units.MagSystem, mags []float64, p FilterParams) ([]float64, error) {
	if sys == units.ABMag {
		pivot := p.Pivot.Angstroms()
		out := make([]float64, len(mags))
		for i, m := range mags {
			out[i] = math.Pow(10, -0.4*(m-abMagOffset))
		}
		vecmath.ScaleBlockInPlace(out, 1/(abFlamFactor*pivot*pivot))
		return out, nil
	}
	rates, err := CountRate(sys, mags, p)
	if err != nil {
		return nil, err
	}
	vecmath.ScaleBlockInPlace(rates, p.PhotFlam)
	return rates, nil
}

// ConvertOneToFlam converts a single magnitude. The rescaling stage uses it
// to turn one catalog magnitude into the absolute level for a normalized
// spectrum.
func ConvertOneToFlam(sys units.MagSystem, mag float64, p FilterParams) (float64, error) {
	vals, err := ConvertToFlam(sys, []float64{mag}, p)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}
