package sedarchive_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"sedgen/internal/sed"
	"sedgen/internal/sedarchive"
	"sedgen/internal/units"
)

func sampleSet() *sed.Set {
	set := sed.NewSet()
	set.Put(3, sed.Spectrum{
		Wavelengths: units.WavelengthGrid{Values: []float64{2.35, 4.421, 5.15}, Unit: units.Micron},
		Fluxes:      units.FluxSeries{Values: []float64{0, 1.5e-20, 2.1e-20}, Unit: units.Flam},
	})
	set.Put(1, sed.Spectrum{
		Wavelengths: units.WavelengthGrid{Values: []float64{1.0, 2.0}, Unit: units.Micron},
		Fluxes:      units.FluxSeries{Values: []float64{0.5, 1.5}, Unit: units.Percent},
	})
	return set
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "source_sed_file_from_test.hdf5")

	if err := sedarchive.Save(ctx, sampleSet(), path, units.Micron, units.Flam); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := sedarchive.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("reloaded %d spectra, want 2", got.Len())
	}
	idx := got.Indices()
	if idx[0] != 1 || idx[1] != 3 {
		t.Fatalf("Indices = %v, want ascending [1 3]", idx)
	}

	sp, _ := got.Get(3)
	if sp.Wavelengths.Unit != units.Micron || sp.Fluxes.Unit != units.Flam {
		t.Fatalf("units = %q/%q, want micron/flam", sp.Wavelengths.Unit, sp.Fluxes.Unit)
	}
	wantWaves := []float64{2.35, 4.421, 5.15}
	wantFluxes := []float64{0, 1.5e-20, 2.1e-20}
	for i := range wantWaves {
		if sp.Wavelengths.Values[i] != wantWaves[i] || sp.Fluxes.Values[i] != wantFluxes[i] {
			t.Fatalf("object 3 round-trip mismatch: %+v", sp)
		}
	}

	// A percent-tagged entry survives with its tag, so a reloaded archive
	// can still feed the rescaling stage.
	sp, _ = got.Get(1)
	if !sp.Fluxes.Normalized() {
		t.Fatalf("object 1 lost its percent tag: %q", sp.Fluxes.Unit)
	}
}

func TestSaveReplacesExistingArchive(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "archive.hdf5")

	if err := sedarchive.Save(ctx, sampleSet(), path, units.Micron, units.Flam); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	small := sed.NewSet()
	small.Put(7, sed.Spectrum{
		Wavelengths: units.WavelengthGrid{Values: []float64{1, 2}, Unit: units.Micron},
		Fluxes:      units.FluxSeries{Values: []float64{3e-20, 3e-20}, Unit: units.Flam},
	})
	if err := sedarchive.Save(ctx, small, path, units.Micron, units.Flam); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := sedarchive.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Len() != 1 || !got.Has(7) {
		t.Fatalf("archive not replaced: %v", got.Indices())
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := sedarchive.Open(context.Background(), filepath.Join(t.TempDir(), "absent.hdf5"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestOpenRejectsForeignDatabase(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.hdf5")
	if err := os.WriteFile(garbage, []byte("not a database at all"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := sedarchive.Open(context.Background(), garbage); err == nil {
		t.Fatal("opening a non-database file should fail")
	}

	// A well-formed SQLite database that was never a spectra archive must be
	// refused instead of coming back as an empty set.
	foreign := filepath.Join(dir, "foreign.hdf5")
	db, err := sql.Open("sqlite", foreign)
	if err != nil {
		t.Fatalf("open foreign db: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE other (id INTEGER)"); err != nil {
		t.Fatalf("create foreign table: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close foreign db: %v", err)
	}
	if _, err := sedarchive.Open(context.Background(), foreign); err == nil {
		t.Fatal("opening a foreign database should fail")
	}
}

func TestSaveEmptySet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "empty.hdf5")
	if err := sedarchive.Save(ctx, sed.NewSet(), path, units.Micron, units.Flam); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := sedarchive.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("empty archive reloaded %d spectra", got.Len())
	}
}

func TestVerifyDriver(t *testing.T) {
	if err := sedarchive.VerifyDriver(context.Background()); err != nil {
		t.Fatalf("VerifyDriver: %v", err)
	}
}
