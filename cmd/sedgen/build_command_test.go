package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"sedgen/internal/pipeline"
	"sedgen/internal/testsupport"
)

func TestBuildCommandWritesArchive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)
	dir := t.TempDir()
	cat := testsupport.WriteCatalog(t, dir, "ptsrc.cat", "abmag",
		"index x_or_RA y_or_Dec nircam_f444w_magnitude",
		"1 12.5 45.2 20.0",
	)

	out, _, err := runCLI(t, []string{"build", cat}, configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "Saved 1 spectra")
	requireContains(t, out, "source_sed_file_from_ptsrc.hdf5")
	requireContains(t, out, "ptsrc.cat")

	archive := filepath.Join(cfg.Paths.OutputDir, "source_sed_file_from_ptsrc.hdf5")
	set := testsupport.MustOpenArchive(t, archive)
	if set.Len() != 1 {
		t.Fatalf("archive spectra = %d, want 1", set.Len())
	}
	if _, err := os.Stat(filepath.Join(dir, "ptsrc_with_flambda.cat")); err != nil {
		t.Fatalf("annotated catalog: %v", err)
	}
}

func TestBuildCommandJSON(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)
	cat := testsupport.WriteCatalog(t, t.TempDir(), "targets.cat", "abmag",
		"index x_or_RA y_or_Dec nircam_f444w_magnitude",
		"1 12.5 45.2 20.0",
		"2 12.6 45.3 18.0",
	)

	out, _, err := runCLI(t, []string{"build", "--json", cat}, configPath)
	if err != nil {
		t.Fatalf("build --json: %v", err)
	}

	var result pipeline.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode summary: %v\noutput:\n%s", err, out)
	}
	if result.Objects != 2 || result.Built != 2 {
		t.Fatalf("result = %+v", result)
	}
	if result.RunID == "" {
		t.Fatal("empty RunID in JSON summary")
	}
}

func TestBuildCommandOverrides(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)
	dir := t.TempDir()
	cat := testsupport.WriteCatalog(t, dir, "ptsrc.cat", "abmag",
		"index x_or_RA y_or_Dec nircam_f444w_magnitude",
		"1 12.5 45.2 20.0",
	)
	overrides := filepath.Join(dir, "supplied.yaml")
	testsupport.WriteFile(t, overrides,
		"7:\n"+
			"  wavelengths: [1.0, 2.0, 3.0]\n"+
			"  fluxes: [1.0e-18, 2.0e-18, 3.0e-18]\n")

	output := filepath.Join(t.TempDir(), "combined.hdf5")
	out, _, err := runCLI(t, []string{"build", "--overrides", overrides, "--output", output, cat}, configPath)
	if err != nil {
		t.Fatalf("build with overrides: %v", err)
	}
	requireContains(t, out, "Saved 2 spectra")
	requireContains(t, out, "Supplied 1, built 1")

	set := testsupport.MustOpenArchive(t, output)
	sp, ok := set.Get(7)
	if !ok {
		t.Fatal("override spectrum missing from archive")
	}
	if got := sp.Fluxes.Values[1]; math.Abs(got-2.0e-18) > 1e-30 {
		t.Fatalf("override flux = %v, want 2.0e-18", got)
	}
}

func TestBuildCommandRejectsMissingCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	_, _, err := runCLI(t, []string{"build", filepath.Join(t.TempDir(), "absent.cat")}, configPath)
	if err == nil {
		t.Fatal("expected error for missing catalog")
	}
}
