package photom

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sedgen/internal/catalog"
)

//go:embed zeropoints/*.list
var zeropointFS embed.FS

var tableFiles = map[catalog.Instrument]string{
	catalog.NIRCam: "nircam_zeropoints.list",
	catalog.NIRISS: "niriss_zeropoints.list",
	catalog.FGS:    "guider_zeropoints.list",
}

const (
	colFilter   = "Filter"
	colModule   = "Module"
	colDetector = "Detector"
	colPhotFlam = "PHOTFLAM"
	colPhotFnu  = "PHOTFNU"
	colPivot    = "Pivot_wave"
)

// Source loads instrument zeropoint tables. A table file in the override
// directory wins over the embedded copy of the same name; parsed tables are
// cached for the life of the Source.
type Source struct {
	dir string

	mu     sync.Mutex
	tables map[catalog.Instrument]*catalog.Table
}

// NewSource returns a Source reading overrides from referenceDir when it is
// non-empty and the embedded tables otherwise.
func NewSource(referenceDir string) *Source {
	return &Source{
		dir:    referenceDir,
		tables: make(map[catalog.Instrument]*catalog.Table),
	}
}

// Table returns the zeropoint table for an instrument.
func (s *Source) Table(inst catalog.Instrument) (*catalog.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[inst]; ok {
		return t, nil
	}
	name, ok := tableFiles[inst]
	if !ok {
		return nil, fmt.Errorf("no zeropoint table for instrument %q", inst)
	}
	t, err := s.load(name)
	if err != nil {
		return nil, fmt.Errorf("zeropoint table for %s: %w", inst, err)
	}
	s.tables[inst] = t
	return t, nil
}

func (s *Source) load(name string) (*catalog.Table, error) {
	if s.dir != "" {
		path := filepath.Join(s.dir, name)
		switch _, err := os.Stat(path); {
		case err == nil:
			return catalog.ParseFile(path)
		case !os.IsNotExist(err):
			return nil, err
		}
	}
	f, err := zeropointFS.Open("zeropoints/" + name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.Parse(f)
}

// Validate loads an instrument's table and checks it carries the columns and
// rows the resolver needs.
func (s *Source) Validate(inst catalog.Instrument) error {
	t, err := s.Table(inst)
	if err != nil {
		return err
	}
	if t.NumRows() == 0 {
		return fmt.Errorf("zeropoint table for %s has no rows", inst)
	}
	required := []string{colPhotFlam, colPhotFnu, colPivot, "ABMAG", "STMAG", "VEGAMAG"}
	switch inst {
	case catalog.NIRCam:
		required = append(required, colFilter, colModule)
	case catalog.FGS:
		required = append(required, colDetector)
	default:
		required = append(required, colFilter)
	}
	for _, col := range required {
		if !t.HasColumn(col) {
			return fmt.Errorf("zeropoint table for %s missing column %q", inst, col)
		}
	}
	return nil
}
