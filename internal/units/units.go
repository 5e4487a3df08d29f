// Package units defines the wavelength, flux, and magnitude-system tags that
// move through the spectral pipeline, plus the conversions between them.
// Arrays never travel bare: wavelengths ride in a WavelengthGrid and fluxes in
// a FluxSeries so the unit survives every hand-off.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// WavelengthUnit identifies the unit of a wavelength value or grid.
type WavelengthUnit string

const (
	Micron    WavelengthUnit = "micron"
	Nanometer WavelengthUnit = "nm"
	Angstrom  WavelengthUnit = "angstrom"
)

// MicronsPerAngstrom converts between the two wavelength units the
// calibration tables mix: pivots are tabulated in microns while the AB
// closed-form conversion wants angstroms.
const MicronsPerAngstrom = 1e-4

var micronsPer = map[WavelengthUnit]float64{
	Micron:    1,
	Nanometer: 1e-3,
	Angstrom:  MicronsPerAngstrom,
}

// ParseWavelengthUnit maps common spellings onto a WavelengthUnit.
func ParseWavelengthUnit(s string) (WavelengthUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "micron", "microns", "um":
		return Micron, nil
	case "nm", "nanometer", "nanometers":
		return Nanometer, nil
	case "angstrom", "angstroms", "aa":
		return Angstrom, nil
	}
	return "", fmt.Errorf("unknown wavelength unit %q", s)
}

// Wavelength is a scalar wavelength tagged with its unit.
type Wavelength struct {
	Value float64
	Unit  WavelengthUnit
}

// Microns returns the wavelength converted to microns.
func (w Wavelength) Microns() float64 {
	return w.Value * micronsPer[w.Unit]
}

// Angstroms returns the wavelength converted to angstroms.
func (w Wavelength) Angstroms() float64 {
	return w.Microns() / MicronsPerAngstrom
}

// WavelengthGrid is a wavelength array sharing a single unit.
type WavelengthGrid struct {
	Values []float64
	Unit   WavelengthUnit
}

// Microns returns the grid values converted to microns. The returned slice is
// always a fresh copy, even when the grid is already in microns.
func (g WavelengthGrid) Microns() []float64 {
	factor, ok := micronsPer[g.Unit]
	if !ok {
		factor = 1
	}
	out := make([]float64, len(g.Values))
	for i, v := range g.Values {
		out[i] = v * factor
	}
	return out
}

// FluxUnit identifies the unit of a flux array.
type FluxUnit string

const (
	// Flam is flux density per unit wavelength, erg s^-1 cm^-2 A^-1.
	Flam FluxUnit = "flam"
	// Fnu is flux density per unit frequency, erg s^-1 cm^-2 Hz^-1.
	Fnu FluxUnit = "fnu"
	// Percent marks a normalized spectrum: a unitless shape scaled to a
	// median of 1 that still needs an absolute level from the catalog.
	Percent FluxUnit = "percent"
)

// ParseFluxUnit maps common spellings onto a FluxUnit.
func ParseFluxUnit(s string) (FluxUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flam", "flambda":
		return Flam, nil
	case "fnu":
		return Fnu, nil
	case "percent", "pct", "normalized":
		return Percent, nil
	}
	return "", fmt.Errorf("unknown flux unit %q", s)
}

// FluxSeries is a flux array tagged with its unit.
type FluxSeries struct {
	Values []float64
	Unit   FluxUnit
}

// Normalized reports whether the series is a unitless shape awaiting rescale.
func (f FluxSeries) Normalized() bool {
	return f.Unit == Percent
}

// ErrUnknownSystem marks a magnitude-system token that is not one of the
// supported systems. Catalog readers wrap it so callers can classify the
// failure without string matching.
var ErrUnknownSystem = errors.New("unrecognized magnitude system")

// MagSystem identifies the photometric system catalog magnitudes are quoted
// in. It selects both the conversion math and the zeropoint column used for
// calibration lookups.
type MagSystem string

const (
	ABMag   MagSystem = "abmag"
	STMag   MagSystem = "stmag"
	VegaMag MagSystem = "vegamag"
)

// ParseMagSystem validates a magnitude-system token. Matching is
// case-insensitive; anything but the three supported systems fails with
// ErrUnknownSystem in the chain.
func ParseMagSystem(s string) (MagSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ABMag):
		return ABMag, nil
	case string(STMag):
		return STMag, nil
	case string(VegaMag):
		return VegaMag, nil
	}
	return "", fmt.Errorf("%w %q (want abmag, stmag, or vegamag)", ErrUnknownSystem, s)
}
