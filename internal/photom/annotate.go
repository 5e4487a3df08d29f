package photom

import (
	"sedgen/internal/catalog"
	"sedgen/internal/units"
)

// ColumnParams resolves the calibration tuple for every instrument magnitude
// column of the catalog, keyed by column name. Columns are grouped per
// instrument first, so one catalog can mix instruments freely.
func (s *Source) ColumnParams(t *catalog.Table, sys units.MagSystem) (map[string]FilterParams, error) {
	magCols := t.MagnitudeColumns()
	groups := make(map[catalog.Instrument]map[string]catalog.ColumnKey)
	for _, col := range magCols {
		key, _ := t.Key(col)
		if groups[key.Instrument] == nil {
			groups[key.Instrument] = make(map[string]catalog.ColumnKey)
		}
		groups[key.Instrument][col] = key
	}

	params := make(map[string]FilterParams, len(magCols))
	for _, inst := range catalog.Instruments() {
		keys := groups[inst]
		if len(keys) == 0 {
			continue
		}
		resolved, err := s.FilterInfo(keys, sys)
		if err != nil {
			return nil, err
		}
		for col, p := range resolved {
			params[col] = p
		}
	}
	return params, nil
}

// AddFlamColumns appends a flambda flux-density column for every instrument
// magnitude column in the catalog, named by swapping "magnitude" for "flam".
// Running it again recomputes the same columns in place rather than growing
// the table. The returned map carries the calibration tuple used for each
// magnitude column, keyed by the magnitude column's name.
func (s *Source) AddFlamColumns(t *catalog.Table, sys units.MagSystem) (map[string]FilterParams, error) {
	params, err := s.ColumnParams(t, sys)
	if err != nil {
		return nil, err
	}

	for _, col := range t.MagnitudeColumns() {
		mags, err := t.Floats(col)
		if err != nil {
			return nil, err
		}
		flam, err := ConvertToFlam(sys, mags, params[col])
		if err != nil {
			return nil, err
		}
		if err := t.AddFloatColumn(catalog.FlamColumnName(col), flam); err != nil {
			return nil, err
		}
	}
	return params, nil
}
