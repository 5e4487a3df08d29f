package sedarchive

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"sedgen/internal/sed"
	"sedgen/internal/units"
)

// Save writes a spectral catalog to a new archive at path, replacing any
// existing file. Entries are written in ascending object-index order inside
// one transaction. The unit arguments become the archive-level defaults;
// entries missing a unit tag inherit them, and tagged entries (including
// normalized percent spectra) keep their own tags.
func Save(ctx context.Context, set *sed.Set, path string, wavelengthUnit units.WavelengthUnit, fluxUnit units.FluxUnit) error {
	if set == nil {
		return errors.New("spectra set is nil")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure archive directory: %w", err)
		}
	}
	if err := removeArchiveFiles(path); err != nil {
		return err
	}

	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := createSchema(ctx, db, string(wavelengthUnit), string(fluxUnit)); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO spectra (object_index, wavelengths, fluxes, wavelength_unit, flux_unit)
         VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	err = set.Each(func(idx int64, sp sed.Spectrum) error {
		if err := sp.Validate(); err != nil {
			return fmt.Errorf("object %d: %w", idx, err)
		}
		wu := sp.Wavelengths.Unit
		if wu == "" {
			wu = wavelengthUnit
		}
		fu := sp.Fluxes.Unit
		if fu == "" {
			fu = fluxUnit
		}
		_, err := stmt.ExecContext(ctx, idx,
			encodeFloats(sp.Wavelengths.Values), encodeFloats(sp.Fluxes.Values),
			string(wu), string(fu))
		if err != nil {
			return fmt.Errorf("insert object %d: %w", idx, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Open reads a full spectral catalog back from an archive.
func Open(ctx context.Context, path string) (*sed.Set, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := checkFormatVersion(ctx, db); err != nil {
		return nil, fmt.Errorf("archive %s: %w", path, err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT object_index, wavelengths, fluxes, wavelength_unit, flux_unit
         FROM spectra ORDER BY object_index`)
	if err != nil {
		return nil, fmt.Errorf("query spectra: %w", err)
	}
	defer rows.Close()

	set := sed.NewSet()
	for rows.Next() {
		var (
			idx      int64
			waveBlob []byte
			fluxBlob []byte
			waveUnit string
			fluxUnit string
		)
		if err := rows.Scan(&idx, &waveBlob, &fluxBlob, &waveUnit, &fluxUnit); err != nil {
			return nil, fmt.Errorf("scan spectrum row: %w", err)
		}
		sp, err := decodeSpectrum(waveBlob, fluxBlob, waveUnit, fluxUnit)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", idx, err)
		}
		set.Put(idx, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spectra: %w", err)
	}
	return set, nil
}

// VerifyDriver confirms the embedded SQLite driver can open and query a
// database. Preflight uses it so a broken build surfaces before a run does.
func VerifyDriver(ctx context.Context) error {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return fmt.Errorf("open in-memory db: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping in-memory db: %w", err)
	}
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("query in-memory db: %w", err)
	}
	return nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

// removeArchiveFiles clears a previous archive plus any WAL sidecars so a
// save always starts from an empty database file.
func removeArchiveFiles(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove stale archive file %s: %w", p, err)
		}
	}
	return nil
}

func decodeSpectrum(waveBlob, fluxBlob []byte, waveUnit, fluxUnit string) (sed.Spectrum, error) {
	waves, err := decodeFloats(waveBlob)
	if err != nil {
		return sed.Spectrum{}, fmt.Errorf("wavelength array: %w", err)
	}
	fluxes, err := decodeFloats(fluxBlob)
	if err != nil {
		return sed.Spectrum{}, fmt.Errorf("flux array: %w", err)
	}
	wu, err := units.ParseWavelengthUnit(waveUnit)
	if err != nil {
		return sed.Spectrum{}, err
	}
	fu, err := units.ParseFluxUnit(fluxUnit)
	if err != nil {
		return sed.Spectrum{}, err
	}
	sp := sed.Spectrum{
		Wavelengths: units.WavelengthGrid{Values: waves, Unit: wu},
		Fluxes:      units.FluxSeries{Values: fluxes, Unit: fu},
	}
	if err := sp.Validate(); err != nil {
		return sed.Spectrum{}, err
	}
	return sp, nil
}

func encodeFloats(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeFloats(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 8", len(blob))
	}
	values := make([]float64, len(blob)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return values, nil
}
