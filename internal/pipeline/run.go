// Package pipeline drives one spectra-generation run end to end: object
// catalogs are annotated with flux-density columns, supplied spectra are
// merged in and rescaled to absolute levels, continuum spectra are built for
// every object still uncovered, and the combined set is written to a spectra
// archive.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"sedgen/internal/catalog"
	"sedgen/internal/logging"
	"sedgen/internal/photom"
	"sedgen/internal/sed"
	"sedgen/internal/sedarchive"
	"sedgen/internal/units"
)

// Options configures one pipeline run.
type Options struct {
	// CatalogFiles are processed in order. Later catalogs only build
	// continua for object indexes no earlier source covered.
	CatalogFiles []string
	// Spectra supplies in-memory spectra keyed by object index. They win
	// over entries loaded from SpectraArchive.
	Spectra map[int64]sed.Spectrum
	// SpectraArchive optionally seeds the run with a previously saved
	// archive.
	SpectraArchive string
	// NormalizeColumn names the catalog magnitude column used to rescale
	// normalized spectra to absolute levels. Empty skips rescaling.
	NormalizeColumn string
	// Extrapolate extends built continua to the canonical wavelength
	// bounds.
	Extrapolate bool
	// OutputPath overrides the derived archive location.
	OutputPath string
	// OutputDir receives derived-name archives. Empty keeps them next to
	// the primary catalog.
	OutputDir string
	// ReferenceDir points at on-disk zeropoint tables. Empty uses the
	// embedded copies.
	ReferenceDir string

	Logger *slog.Logger
}

// CatalogResult summarizes one processed catalog file.
type CatalogResult struct {
	Path            string
	AnnotatedPath   string
	MagnitudeSystem units.MagSystem
	Rows            int
	Built           int
}

// Result summarizes a completed run.
type Result struct {
	RunID      string
	OutputPath string
	// Objects is the number of spectra in the saved archive.
	Objects int
	// Supplied counts spectra seeded from the input archive and mapping.
	Supplied int
	// Built counts continuum spectra synthesized from catalog magnitudes.
	Built    int
	Catalogs []CatalogResult
}

// Run executes the spectra-generation pipeline over the configured catalogs
// and reports where the archive was written. Catalogs are processed strictly
// in order on the calling goroutine.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.CatalogFiles) == 0 {
		return nil, Wrap(ErrSchema, "run", "validate options", "at least one catalog file is required", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	runID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldRunID, runID))
	logger.Info("pipeline run starting", logging.Int("catalogs", len(opts.CatalogFiles)))

	r := &runner{
		opts:    opts,
		logger:  logger,
		runID:   runID,
		source:  photom.NewSource(opts.ReferenceDir),
		spectra: sed.NewSet(),
	}
	result, err := r.run(ctx)
	if err != nil {
		logger.Error("pipeline run failed", logging.Error(err))
		return nil, err
	}
	return result, nil
}

type runner struct {
	opts    Options
	logger  *slog.Logger
	runID   string
	source  *photom.Source
	spectra *sed.Set
}

func (r *runner) run(ctx context.Context) (*Result, error) {
	if err := r.loadSupplied(ctx); err != nil {
		return nil, err
	}
	result := &Result{
		RunID:    r.runID,
		Supplied: r.spectra.Len(),
	}

	for _, path := range r.opts.CatalogFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := r.processCatalog(path)
		if err != nil {
			return nil, err
		}
		result.Catalogs = append(result.Catalogs, res)
		result.Built += res.Built
	}

	outputPath := absolutePath(r.outputPath())
	if err := sedarchive.Save(ctx, r.spectra, outputPath, units.Micron, units.Flam); err != nil {
		return nil, Wrap(markerOr(err, ErrArchive), "save", "write spectra archive", outputPath, err)
	}
	result.OutputPath = outputPath
	result.Objects = r.spectra.Len()
	r.logger.Info("spectra catalog archive saved",
		logging.String(logging.FieldArchive, outputPath),
		logging.Int("objects", result.Objects))
	return result, nil
}

// loadSupplied seeds the working set from the input archive first, then the
// in-memory mapping, so mapping entries override archive entries that share
// an object index.
func (r *runner) loadSupplied(ctx context.Context) error {
	if r.opts.SpectraArchive != "" {
		fromFile, err := sedarchive.Open(ctx, r.opts.SpectraArchive)
		if err != nil {
			return Wrap(markerOr(err, ErrArchive), "load", "open spectra archive", r.opts.SpectraArchive, err)
		}
		r.spectra = fromFile
		r.logger.Info("loaded supplied spectra from archive",
			logging.String(logging.FieldArchive, r.opts.SpectraArchive),
			logging.Int("objects", fromFile.Len()))
	}
	if len(r.opts.Spectra) > 0 {
		supplied, err := sed.FromMap(r.opts.Spectra)
		if err != nil {
			return Wrap(nil, "load", "validate supplied spectra", "", err)
		}
		r.spectra = sed.Merge(r.spectra, supplied)
		r.logger.Info("merged in-memory spectra", logging.Int("objects", supplied.Len()))
	}
	return nil
}

func (r *runner) processCatalog(path string) (CatalogResult, error) {
	res := CatalogResult{Path: path}
	clog := r.logger.With(logging.String(logging.FieldCatalog, path))

	t, sys, err := catalog.Read(path)
	if err != nil {
		return res, Wrap(markerOr(err, ErrSchema), "catalog", "read", path, err)
	}
	res.MagnitudeSystem = sys
	res.Rows = t.NumRows()
	clog.Info("catalog loaded",
		logging.String("magnitude_system", string(sys)),
		logging.Int("rows", t.NumRows()))

	params, err := r.source.AddFlamColumns(t, sys)
	if err != nil {
		return res, Wrap(markerOr(err, ErrSchema), "catalog", "annotate flux densities", path, err)
	}
	res.AnnotatedPath = absolutePath(AnnotatedCatalogPath(path))
	if err := t.WriteFile(res.AnnotatedPath); err != nil {
		return res, Wrap(nil, "catalog", "write annotated copy", res.AnnotatedPath, err)
	}
	clog.Info("catalog annotated with flux-density columns",
		logging.String("path", res.AnnotatedPath))

	if r.spectra.Len() > 0 && r.opts.NormalizeColumn != "" {
		if err := r.rescale(t, params, sys); err != nil {
			return res, err
		}
	}

	indices, err := t.Indices()
	if err != nil {
		return res, Wrap(ErrSchema, "catalog", "read object indexes", path, err)
	}
	var uncovered []int
	for row, idx := range indices {
		if !r.spectra.Has(idx) {
			uncovered = append(uncovered, row)
		}
	}
	if len(uncovered) == 0 {
		return res, nil
	}

	continuum, err := sed.BuildContinuum(t.Select(uncovered), params, sed.ContinuumOptions{
		Extrapolate: r.opts.Extrapolate,
		Logger:      clog,
	})
	if err != nil {
		return res, Wrap(markerOr(err, ErrSchema), "continuum", "build spectra", path, err)
	}
	r.spectra = sed.Merge(r.spectra, continuum)
	res.Built = continuum.Len()
	clog.Info("continuum spectra built from catalog magnitudes",
		logging.Int("objects", continuum.Len()))
	return res, nil
}

// rescale converts every normalized spectrum in the working set to an
// absolute level using the configured magnitude column of this catalog.
func (r *runner) rescale(t *catalog.Table, params map[string]photom.FilterParams, sys units.MagSystem) error {
	col := r.opts.NormalizeColumn
	p, ok := params[col]
	if !ok {
		return Wrap(ErrNormalization, "rescale", "resolve column",
			fmt.Sprintf("%s is not a magnitude column of the catalog", col), nil)
	}
	indices, err := t.Indices()
	if err != nil {
		return Wrap(ErrSchema, "rescale", "read object indexes", "", err)
	}
	mags, err := t.Floats(col)
	if err != nil {
		return Wrap(ErrNormalization, "rescale", "read magnitudes", col, err)
	}
	rescaled, err := sed.RescaleNormalized(r.spectra, indices, mags, p, sys, r.logger)
	if err != nil {
		return Wrap(markerOr(err, ErrNormalization), "rescale", "normalize spectra", col, err)
	}
	r.spectra = rescaled
	return nil
}

func (r *runner) outputPath() string {
	if r.opts.OutputPath != "" {
		return r.opts.OutputPath
	}
	name := DefaultOutputName(r.opts.CatalogFiles[0], r.opts.SpectraArchive)
	if r.opts.OutputDir != "" {
		return filepath.Join(r.opts.OutputDir, name)
	}
	return filepath.Join(filepath.Dir(r.opts.CatalogFiles[0]), name)
}

// absolutePath resolves p against the working directory, keeping p as given
// when resolution fails.
func absolutePath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
