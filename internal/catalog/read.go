package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"sedgen/internal/units"
)

// IndexColumn names the object identifier column every catalog must carry.
const IndexColumn = "index"

// headerCommentScan caps how many leading comment lines the magnitude-system
// search inspects.
const headerCommentScan = 4

// Read loads an object catalog and validates what every downstream stage
// relies on: an index column with a minimum of 1, at least one data row, and
// a magnitude system named in the header comments.
func Read(path string) (*Table, units.MagSystem, error) {
	t, err := ParseFile(path)
	if err != nil {
		return nil, "", err
	}
	if err := t.validateObjectCatalog(); err != nil {
		return nil, "", fmt.Errorf("catalog %s: %w", path, err)
	}
	sys, err := MagnitudeSystem(t.Comments())
	if err != nil {
		return nil, "", fmt.Errorf("catalog %s: %w", path, err)
	}
	return t, sys, nil
}

func (t *Table) validateObjectCatalog() error {
	if !t.HasColumn(IndexColumn) {
		return fmt.Errorf("missing required column %q", IndexColumn)
	}
	if t.NumRows() == 0 {
		return errors.New("no data rows")
	}
	idx, err := t.Indices()
	if err != nil {
		return err
	}
	if lowest := slices.Min(idx); lowest < 1 {
		return fmt.Errorf("object indexes must start at 1 or above, found %d", lowest)
	}
	return nil
}

// MagnitudeSystem finds the magnitude-system token in the first few header
// comment lines. The token is the whole comment line, matching catalogs that
// carry a bare "abmag" line near the top of the file.
func MagnitudeSystem(comments []string) (units.MagSystem, error) {
	limit := min(len(comments), headerCommentScan)
	for _, line := range comments[:limit] {
		if strings.Contains(strings.ToLower(line), "mag") {
			return units.ParseMagSystem(line)
		}
	}
	return "", fmt.Errorf("%w: no magnitude system named in the first %d header comments",
		units.ErrUnknownSystem, headerCommentScan)
}
