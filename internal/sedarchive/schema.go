package sedarchive

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"time"
)

//go:embed schema.sql
var schemaSQL string

// formatVersion is the current archive format version. Bump this when the
// layout changes; readers refuse archives written with a different version.
const formatVersion = 1

// Meta keys recorded in every archive.
const (
	metaFormatVersion  = "format_version"
	metaWavelengthUnit = "wavelength_unit"
	metaFluxUnit       = "flux_unit"
	metaCreatedAt      = "created_at"
)

// ErrFormatMismatch indicates the archive was written with a different
// format version than this build reads.
var ErrFormatMismatch = errors.New("archive format version mismatch")

func createSchema(ctx context.Context, db *sql.DB, wavelengthUnit, fluxUnit string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	meta := map[string]string{
		metaFormatVersion:  strconv.Itoa(formatVersion),
		metaWavelengthUnit: wavelengthUnit,
		metaFluxUnit:       fluxUnit,
		metaCreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO archive_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("record archive meta %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func checkFormatVersion(ctx context.Context, db *sql.DB) error {
	var tableExists int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='archive_meta'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check archive_meta table: %w", err)
	}
	if tableExists == 0 {
		return errors.New("not a spectra archive: archive_meta table missing")
	}

	var raw string
	err = db.QueryRowContext(ctx, "SELECT value FROM archive_meta WHERE key = ?", metaFormatVersion).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("not a spectra archive: format version missing")
	}
	if err != nil {
		return fmt.Errorf("read format version: %w", err)
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("parse format version %q: %w", raw, err)
	}
	if version != formatVersion {
		return fmt.Errorf("%w: archive has version %d, expected %d", ErrFormatMismatch, version, formatVersion)
	}
	return nil
}
