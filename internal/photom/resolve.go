package photom

import (
	"errors"
	"fmt"
	"strings"

	"sedgen/internal/catalog"
	"sedgen/internal/units"
)

// ErrNoCalibration marks a magnitude column whose filter has no usable row
// in the instrument's zeropoint table.
var ErrNoCalibration = errors.New("no calibration entry")

// FilterParams is the calibration tuple for one filter: the count-rate scale
// factors in both flux conventions, the zeropoint in the requested magnitude
// system, and the filter's pivot wavelength.
type FilterParams struct {
	PhotFlam  float64
	PhotFnu   float64
	ZeroPoint float64
	Pivot     units.Wavelength
}

// FilterInfo resolves calibration tuples for magnitude columns that all
// belong to a single instrument, keyed by column name. NIRCam filters
// resolve against module B rows; the guider table always resolves to its
// first row, the reference detector, whatever the column names.
func (s *Source) FilterInfo(keys map[string]catalog.ColumnKey, sys units.MagSystem) (map[string]FilterParams, error) {
	out := make(map[string]FilterParams, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var inst catalog.Instrument
	for _, key := range keys {
		if inst == "" {
			inst = key.Instrument
			continue
		}
		if key.Instrument != inst {
			return nil, fmt.Errorf("mixed instruments in one lookup: %s and %s", inst, key.Instrument)
		}
	}
	tbl, err := s.Table(inst)
	if err != nil {
		return nil, err
	}
	for col, key := range keys {
		params, err := resolveRow(tbl, inst, key, sys)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		out[col] = params
	}
	return out, nil
}

func resolveRow(tbl *catalog.Table, inst catalog.Instrument, key catalog.ColumnKey, sys units.MagSystem) (FilterParams, error) {
	row := -1
	switch inst {
	case catalog.FGS:
		if tbl.NumRows() == 0 {
			return FilterParams{}, fmt.Errorf("%w: guider table is empty", ErrNoCalibration)
		}
		row = 0
	case catalog.NIRCam:
		filters, err := tbl.Strings(colFilter)
		if err != nil {
			return FilterParams{}, fmt.Errorf("%w: %w", ErrNoCalibration, err)
		}
		modules, err := tbl.Strings(colModule)
		if err != nil {
			return FilterParams{}, fmt.Errorf("%w: %w", ErrNoCalibration, err)
		}
		for i := range filters {
			if strings.EqualFold(filters[i], key.Filter) && strings.EqualFold(modules[i], "B") {
				row = i
				break
			}
		}
	default:
		filters, err := tbl.Strings(colFilter)
		if err != nil {
			return FilterParams{}, fmt.Errorf("%w: %w", ErrNoCalibration, err)
		}
		for i := range filters {
			if strings.EqualFold(filters[i], key.Filter) {
				row = i
				break
			}
		}
	}
	if row < 0 {
		return FilterParams{}, fmt.Errorf("%w for filter %q in the %s table",
			ErrNoCalibration, strings.ToUpper(key.Filter), inst)
	}

	photflam, err := cellFloat(tbl, colPhotFlam, row)
	if err != nil {
		return FilterParams{}, err
	}
	photfnu, err := cellFloat(tbl, colPhotFnu, row)
	if err != nil {
		return FilterParams{}, err
	}
	zp, err := cellFloat(tbl, zeropointColumn(sys), row)
	if err != nil {
		return FilterParams{}, err
	}
	pivot, err := cellFloat(tbl, colPivot, row)
	if err != nil {
		return FilterParams{}, err
	}
	return FilterParams{
		PhotFlam:  photflam,
		PhotFnu:   photfnu,
		ZeroPoint: zp,
		Pivot:     units.Wavelength{Value: pivot, Unit: units.Micron},
	}, nil
}

// zeropointColumn names the zeropoint column for a magnitude system, e.g.
// ABMAG for abmag.
func zeropointColumn(sys units.MagSystem) string {
	return strings.ToUpper(string(sys))
}

func cellFloat(tbl *catalog.Table, col string, row int) (float64, error) {
	vals, err := tbl.Floats(col)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNoCalibration, err)
	}
	if row >= len(vals) {
		return 0, fmt.Errorf("%w: row %d out of range for column %q", ErrNoCalibration, row, col)
	}
	return vals[row], nil
}
