package sed

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"sedgen/internal/catalog"
	"sedgen/internal/logging"
	"sedgen/internal/photom"
	"sedgen/internal/units"
)

// Canonical wavelength coverage for built continua, in microns. A catalog
// whose photometric columns are purely NIRCam raises the short bound to the
// long-wavelength channel cutoff.
const (
	continuumMin  = 0.9
	continuumMax  = 5.15
	nircamOnlyMin = 2.35
)

// duplicateOffset spaces the synthetic second control point added for
// single-filter catalogs, in microns.
const duplicateOffset = 0.01

// ContinuumOptions tunes BuildContinuum.
type ContinuumOptions struct {
	// Extrapolate extends each continuum to the canonical wavelength
	// bounds where the filter pivots do not already cover them.
	Extrapolate bool
	Logger      *slog.Logger
}

// BuildContinuum synthesizes a continuum spectrum for every catalog row from
// its flam flux-density columns. Each filter contributes one control point
// at its pivot wavelength; points are sorted ascending in wavelength, and a
// single-filter catalog gets a duplicate control point just past the pivot
// so the result is a flat line. Interpolated fluxes that come out negative
// are clamped to exactly 0.
func BuildContinuum(t *catalog.Table, params map[string]photom.FilterParams, opts ContinuumOptions) (*Set, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	fluxCols := t.FluxColumns()
	if len(fluxCols) == 0 {
		return nil, errors.New("catalog has no flux-density columns to build continua from")
	}
	indices, err := t.Indices()
	if err != nil {
		return nil, err
	}

	pivots := make([]float64, len(fluxCols))
	colVals := make([][]float64, len(fluxCols))
	pureNIRCam := true
	for i, col := range fluxCols {
		key, _ := t.Key(col)
		if key.Instrument != catalog.NIRCam {
			pureNIRCam = false
		}
		p, ok := params[catalog.MagnitudeColumnName(col)]
		if !ok {
			return nil, fmt.Errorf("no calibration parameters for column %s", col)
		}
		pivots[i] = p.Pivot.Microns()
		if colVals[i], err = t.Floats(col); err != nil {
			return nil, err
		}
	}

	minWave, maxWave := float64(continuumMin), float64(continuumMax)
	if pureNIRCam {
		minWave = nircamOnlyMin
	}

	extrapolate := opts.Extrapolate
	single := len(fluxCols) == 1
	if single {
		logger.Info("single filter magnitude in catalog, forcing a flat extrapolated continuum",
			logging.String("filter_column", fluxCols[0]))
		extrapolate = true
		pivots = append(pivots, pivots[0]+duplicateOffset)
	}

	order := make([]int, len(pivots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return pivots[order[a]] < pivots[order[b]] })
	wavelengths := make([]float64, len(pivots))
	for i, o := range order {
		wavelengths[i] = pivots[o]
	}

	grid := slices.Clone(wavelengths)
	needLow := wavelengths[0] > minWave
	needHigh := wavelengths[len(wavelengths)-1] < maxWave
	if extrapolate {
		if needLow {
			grid = append([]float64{minWave}, grid...)
		}
		if needHigh {
			grid = append(grid, maxWave)
		}
	}

	set := NewSet()
	raw := make([]float64, len(pivots))
	for r, idx := range indices {
		for i := range fluxCols {
			raw[i] = colVals[i][r]
		}
		if single {
			raw[1] = raw[0]
		}
		flux := make([]float64, len(raw))
		for i, o := range order {
			flux[i] = raw[o]
		}
		if extrapolate && len(grid) != len(wavelengths) {
			flux = interpolateGrid(wavelengths, flux, grid)
			for i, v := range flux {
				if v < 0 {
					flux[i] = 0
				}
			}
		}
		set.Put(idx, Spectrum{
			Wavelengths: units.WavelengthGrid{Values: slices.Clone(grid), Unit: units.Micron},
			Fluxes:      units.FluxSeries{Values: flux, Unit: units.Flam},
		})
	}
	return set, nil
}
