package sed

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cwbudde/algo-vecmath"

	"sedgen/internal/logging"
	"sedgen/internal/photom"
	"sedgen/internal/units"
)

// ErrUnmatchedNormalized marks a normalized spectrum whose object index has
// no row in the catalog, leaving its absolute level unresolvable.
var ErrUnmatchedNormalized = errors.New("normalized spectrum has no catalog magnitude")

// RescaleNormalized converts percent-united spectra to absolute flambda
// levels. Each normalized entry's catalog magnitude, taken from the paired
// index and magnitude columns, converts to a flambda level with the filter
// parameters p, and the shape is multiplied through by it. Entries already
// in physical units pass through untouched. The input set is not modified.
func RescaleNormalized(set *Set, indices []int64, mags []float64, p photom.FilterParams, sys units.MagSystem, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(indices) != len(mags) {
		return nil, fmt.Errorf("index and magnitude columns differ in length: %d vs %d", len(indices), len(mags))
	}
	byIndex := make(map[int64]float64, len(indices))
	for i, idx := range indices {
		byIndex[idx] = mags[i]
	}

	out := NewSet()
	rescaled := 0
	for _, idx := range set.Indices() {
		sp, _ := set.Get(idx)
		if !sp.Fluxes.Normalized() {
			out.Put(idx, sp)
			continue
		}
		mag, ok := byIndex[idx]
		if !ok {
			return nil, fmt.Errorf("%w: object %d", ErrUnmatchedNormalized, idx)
		}
		level, err := photom.ConvertOneToFlam(sys, mag, p)
		if err != nil {
			return nil, err
		}
		flux := make([]float64, sp.Len())
		vecmath.ScaleBlock(flux, sp.Fluxes.Values, level)
		out.Put(idx, Spectrum{
			Wavelengths: units.WavelengthGrid{Values: slices.Clone(sp.Wavelengths.Values), Unit: sp.Wavelengths.Unit},
			Fluxes:      units.FluxSeries{Values: flux, Unit: units.Flam},
		})
		rescaled++
	}
	if rescaled > 0 {
		logger.Info("rescaled normalized spectra to absolute levels", logging.Int("objects", rescaled))
	}
	return out, nil
}
