package sed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sedgen/internal/units"
)

// spectrumEntry is the on-disk YAML layout for one hand-supplied spectrum.
type spectrumEntry struct {
	Wavelengths    []float64 `yaml:"wavelengths"`
	Fluxes         []float64 `yaml:"fluxes"`
	WavelengthUnit string    `yaml:"wavelength_unit"`
	FluxUnit       string    `yaml:"flux_unit"`
}

// LoadOverrides reads hand-supplied spectra from a YAML file mapping object
// index to wavelength and flux arrays. Missing unit tags default to micron
// and flam; wavelengths are normalized to microns at load so the rest of the
// pipeline never sees mixed units.
func LoadOverrides(path string) (*Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file map[int64]spectrumEntry
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	m := make(map[int64]Spectrum, len(file))
	for idx, entry := range file {
		sp := Spectrum{
			Wavelengths: units.WavelengthGrid{Values: entry.Wavelengths, Unit: units.Micron},
			Fluxes:      units.FluxSeries{Values: entry.Fluxes, Unit: units.Flam},
		}
		if entry.WavelengthUnit != "" {
			if sp.Wavelengths.Unit, err = units.ParseWavelengthUnit(entry.WavelengthUnit); err != nil {
				return nil, fmt.Errorf("object %d: %w", idx, err)
			}
		}
		if entry.FluxUnit != "" {
			if sp.Fluxes.Unit, err = units.ParseFluxUnit(entry.FluxUnit); err != nil {
				return nil, fmt.Errorf("object %d: %w", idx, err)
			}
		}
		m[idx] = sp
	}
	set, err := FromMap(m)
	if err != nil {
		return nil, fmt.Errorf("spectra file %s: %w", path, err)
	}
	return set, nil
}
