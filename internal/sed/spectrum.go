package sed

import (
	"errors"
	"fmt"
	"slices"

	"sedgen/internal/units"
)

// Spectrum is one object's sampled spectral energy distribution.
type Spectrum struct {
	Wavelengths units.WavelengthGrid
	Fluxes      units.FluxSeries
}

// Len returns the number of samples.
func (s Spectrum) Len() int {
	return len(s.Wavelengths.Values)
}

// Validate checks the two arrays are non-empty and line up.
func (s Spectrum) Validate() error {
	if s.Len() == 0 {
		return errors.New("empty spectrum")
	}
	if len(s.Wavelengths.Values) != len(s.Fluxes.Values) {
		return fmt.Errorf("wavelength and flux lengths differ: %d vs %d",
			len(s.Wavelengths.Values), len(s.Fluxes.Values))
	}
	return nil
}

// Set holds spectra keyed by object index. All iteration helpers walk
// indexes in ascending order.
type Set struct {
	entries map[int64]Spectrum
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{entries: make(map[int64]Spectrum)}
}

// Len returns the number of spectra.
func (s *Set) Len() int {
	return len(s.entries)
}

// Has reports whether an object index has a spectrum.
func (s *Set) Has(idx int64) bool {
	_, ok := s.entries[idx]
	return ok
}

// Get returns the spectrum for an object index.
func (s *Set) Get(idx int64) (Spectrum, bool) {
	sp, ok := s.entries[idx]
	return sp, ok
}

// Put stores a spectrum, replacing any existing entry for the index.
func (s *Set) Put(idx int64, sp Spectrum) {
	s.entries[idx] = sp
}

// Indices returns the object indexes in ascending order.
func (s *Set) Indices() []int64 {
	out := make([]int64, 0, len(s.entries))
	for idx := range s.entries {
		out = append(out, idx)
	}
	slices.Sort(out)
	return out
}

// Each calls fn for every spectrum in ascending index order, stopping at the
// first error.
func (s *Set) Each(fn func(idx int64, sp Spectrum) error) error {
	for _, idx := range s.Indices() {
		if err := fn(idx, s.entries[idx]); err != nil {
			return err
		}
	}
	return nil
}

// Merge overlays override onto base and returns a new set. On index
// collisions the override entry wins; neither input is modified.
func Merge(base, override *Set) *Set {
	out := NewSet()
	if base != nil {
		for idx, sp := range base.entries {
			out.entries[idx] = sp
		}
	}
	if override != nil {
		for idx, sp := range override.entries {
			out.entries[idx] = sp
		}
	}
	return out
}

// FromMap builds a set from a plain index-to-spectrum mapping, applying the
// unit conventions for supplied spectra: missing tags default to micron and
// flam, wavelengths are converted to microns, and flux units other than flam
// or percent are rejected.
func FromMap(m map[int64]Spectrum) (*Set, error) {
	out := NewSet()
	for idx, sp := range m {
		if sp.Wavelengths.Unit == "" {
			sp.Wavelengths.Unit = units.Micron
		}
		if sp.Fluxes.Unit == "" {
			sp.Fluxes.Unit = units.Flam
		}
		if sp.Fluxes.Unit != units.Flam && sp.Fluxes.Unit != units.Percent {
			return nil, fmt.Errorf("object %d: flux unit %q not supported for supplied spectra (want flam or percent)",
				idx, sp.Fluxes.Unit)
		}
		if err := sp.Validate(); err != nil {
			return nil, fmt.Errorf("object %d: %w", idx, err)
		}
		if sp.Wavelengths.Unit != units.Micron {
			sp.Wavelengths = units.WavelengthGrid{Values: sp.Wavelengths.Microns(), Unit: units.Micron}
		}
		out.Put(idx, sp)
	}
	return out, nil
}
