package sed

import (
	"errors"
	"math"
	"testing"

	"sedgen/internal/photom"
	"sedgen/internal/units"
)

func TestRescaleNormalized(t *testing.T) {
	set := NewSet()
	set.Put(1, Spectrum{
		Wavelengths: units.WavelengthGrid{Values: []float64{1, 2, 3}, Unit: units.Micron},
		Fluxes:      units.FluxSeries{Values: []float64{0.5, 1.0, 2.0}, Unit: units.Percent},
	})
	set.Put(2, Spectrum{
		Wavelengths: units.WavelengthGrid{Values: []float64{1, 2}, Unit: units.Micron},
		Fluxes:      units.FluxSeries{Values: []float64{7e-19, 8e-19}, Unit: units.Flam},
	})

	p := photom.FilterParams{Pivot: units.Wavelength{Value: 1.0, Unit: units.Micron}}
	out, err := RescaleNormalized(set, []int64{1, 2}, []float64{20.0, 18.0}, p, units.ABMag, nil)
	if err != nil {
		t.Fatalf("RescaleNormalized: %v", err)
	}

	level, err := photom.ConvertOneToFlam(units.ABMag, 20.0, p)
	if err != nil {
		t.Fatalf("ConvertOneToFlam: %v", err)
	}
	sp, _ := out.Get(1)
	if sp.Fluxes.Unit != units.Flam {
		t.Fatalf("rescaled unit = %q, want flam", sp.Fluxes.Unit)
	}
	want := []float64{0.5 * level, 1.0 * level, 2.0 * level}
	for i := range want {
		if math.Abs(sp.Fluxes.Values[i]-want[i]) > 1e-12*want[i] {
			t.Fatalf("rescaled fluxes = %v, want %v", sp.Fluxes.Values, want)
		}
	}

	// Physical-united entries pass through with their values intact.
	sp, _ = out.Get(2)
	if sp.Fluxes.Unit != units.Flam || sp.Fluxes.Values[0] != 7e-19 {
		t.Fatalf("pass-through entry changed: %+v", sp.Fluxes)
	}

	// The input set keeps its normalized entry.
	orig, _ := set.Get(1)
	if !orig.Fluxes.Normalized() || orig.Fluxes.Values[0] != 0.5 {
		t.Fatal("input set was modified")
	}
}

func TestRescaleNormalizedUnmatchedIndex(t *testing.T) {
	set := NewSet()
	set.Put(9, Spectrum{
		Wavelengths: units.WavelengthGrid{Values: []float64{1, 2}, Unit: units.Micron},
		Fluxes:      units.FluxSeries{Values: []float64{1, 1}, Unit: units.Percent},
	})

	p := photom.FilterParams{Pivot: units.Wavelength{Value: 1.0, Unit: units.Micron}}
	_, err := RescaleNormalized(set, []int64{1, 2}, []float64{20, 18}, p, units.ABMag, nil)
	if !errors.Is(err, ErrUnmatchedNormalized) {
		t.Fatalf("error = %v, want ErrUnmatchedNormalized", err)
	}
}

func TestRescaleNormalizedColumnMismatch(t *testing.T) {
	set := NewSet()
	p := photom.FilterParams{}
	if _, err := RescaleNormalized(set, []int64{1}, []float64{1, 2}, p, units.ABMag, nil); err == nil {
		t.Fatal("length mismatch should fail")
	}
}
