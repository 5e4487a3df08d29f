package testsupport

import (
	"context"
	"testing"

	"sedgen/internal/sed"
	"sedgen/internal/sedarchive"
	"sedgen/internal/units"
)

// Spectrum builds a flam spectrum on micron wavelengths from parallel slices.
func Spectrum(t testing.TB, wavelengths, fluxes []float64) sed.Spectrum {
	t.Helper()

	sp := sed.Spectrum{
		Wavelengths: units.WavelengthGrid{Values: wavelengths, Unit: units.Micron},
		Fluxes:      units.FluxSeries{Values: fluxes, Unit: units.Flam},
	}
	if err := sp.Validate(); err != nil {
		t.Fatalf("test spectrum: %v", err)
	}
	return sp
}

// NormalizedSpectrum builds a percent-united spectrum on micron wavelengths.
func NormalizedSpectrum(t testing.TB, wavelengths, fluxes []float64) sed.Spectrum {
	t.Helper()

	sp := sed.Spectrum{
		Wavelengths: units.WavelengthGrid{Values: wavelengths, Unit: units.Micron},
		Fluxes:      units.FluxSeries{Values: fluxes, Unit: units.Percent},
	}
	if err := sp.Validate(); err != nil {
		t.Fatalf("test spectrum: %v", err)
	}
	return sp
}

// MustSaveArchive writes the spectra to a fresh archive at path.
func MustSaveArchive(t testing.TB, path string, spectra map[int64]sed.Spectrum) {
	t.Helper()

	set, err := sed.FromMap(spectra)
	if err != nil {
		t.Fatalf("sed.FromMap: %v", err)
	}
	if err := sedarchive.Save(context.Background(), set, path, units.Micron, units.Flam); err != nil {
		t.Fatalf("sedarchive.Save: %v", err)
	}
}

// MustOpenArchive reads the spectra archive at path.
func MustOpenArchive(t testing.TB, path string) *sed.Set {
	t.Helper()

	set, err := sedarchive.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("sedarchive.Open: %v", err)
	}
	return set
}
