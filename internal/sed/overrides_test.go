package sed

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"sedgen/internal/units"
)

func writeSpectraYAML(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spectra.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write spectra file: %v", err)
	}
	return path
}

func TestLoadOverrides(t *testing.T) {
	path := writeSpectraYAML(t, `
1:
  wavelengths: [900, 2000, 4500]
  fluxes: [0.5, 1.0, 1.5]
  wavelength_unit: nm
  flux_unit: percent
4:
  wavelengths: [1.0, 2.0]
  fluxes: [1.0e-19, 2.0e-19]
`)
	set, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("loaded %d spectra, want 2", set.Len())
	}

	sp, ok := set.Get(1)
	if !ok {
		t.Fatal("object 1 missing")
	}
	if sp.Wavelengths.Unit != units.Micron {
		t.Fatalf("wavelength unit = %q, want micron after load", sp.Wavelengths.Unit)
	}
	if math.Abs(sp.Wavelengths.Values[0]-0.9) > 1e-12 || math.Abs(sp.Wavelengths.Values[2]-4.5) > 1e-12 {
		t.Fatalf("wavelengths = %v, want converted from nm", sp.Wavelengths.Values)
	}
	if !sp.Fluxes.Normalized() {
		t.Fatal("percent unit must survive load")
	}

	sp, _ = set.Get(4)
	if sp.Fluxes.Unit != units.Flam || sp.Wavelengths.Unit != units.Micron {
		t.Fatalf("untagged entry units = %q/%q, want micron/flam", sp.Wavelengths.Unit, sp.Fluxes.Unit)
	}
	if sp.Fluxes.Values[1] != 2.0e-19 {
		t.Fatalf("fluxes = %v", sp.Fluxes.Values)
	}
}

func TestLoadOverridesRejects(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{
			name: "unsupported flux unit",
			contents: `
2:
  wavelengths: [1.0, 2.0]
  fluxes: [1.0, 2.0]
  flux_unit: fnu
`,
		},
		{
			name: "unknown wavelength unit",
			contents: `
2:
  wavelengths: [1.0, 2.0]
  fluxes: [1.0, 2.0]
  wavelength_unit: parsec
`,
		},
		{
			name: "ragged arrays",
			contents: `
2:
  wavelengths: [1.0, 2.0, 3.0]
  fluxes: [1.0, 2.0]
`,
		},
		{
			name:     "not yaml",
			contents: "::::",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSpectraYAML(t, tc.contents)
			if _, err := LoadOverrides(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	if _, err := LoadOverrides(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
}
