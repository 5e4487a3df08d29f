package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sedgen/internal/pipeline"
	"sedgen/internal/sed"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var (
		spectraArchive  string
		overridesPath   string
		normalizeColumn string
		outputPath      string
		noExtrapolate   bool
		jsonOut         bool
	)

	cmd := &cobra.Command{
		Use:   "build <catalog>...",
		Short: "Build a spectra archive from photometric catalogs",
		Long: "Build converts catalog magnitudes into continuum spectra, merges any\n" +
			"supplied spectra over them, and saves everything as one spectra archive.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				CatalogFiles:    args,
				SpectraArchive:  strings.TrimSpace(spectraArchive),
				NormalizeColumn: cfg.Pipeline.NormalizeColumn,
				Extrapolate:     cfg.Pipeline.Extrapolate,
				OutputPath:      strings.TrimSpace(outputPath),
				OutputDir:       cfg.Paths.OutputDir,
				ReferenceDir:    cfg.Paths.ReferenceDir,
				Logger:          ctx.fileLogger(),
			}
			if cmd.Flags().Changed("normalize-column") {
				opts.NormalizeColumn = strings.TrimSpace(normalizeColumn)
			}
			if noExtrapolate {
				opts.Extrapolate = false
			}
			if path := strings.TrimSpace(overridesPath); path != "" {
				supplied, err := sed.LoadOverrides(path)
				if err != nil {
					return fmt.Errorf("load override spectra: %w", err)
				}
				spectra := make(map[int64]sed.Spectrum, supplied.Len())
				for _, idx := range supplied.Indices() {
					sp, _ := supplied.Get(idx)
					spectra[idx] = sp
				}
				opts.Spectra = spectra
			}

			result, err := pipeline.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved %d spectra to %s\n", result.Objects, result.OutputPath)
			fmt.Fprintf(out, "Supplied %d, built %d from catalog magnitudes\n", result.Supplied, result.Built)

			rows := make([][]string, 0, len(result.Catalogs))
			for _, c := range result.Catalogs {
				rows = append(rows, []string{
					filepath.Base(c.Path),
					string(c.MagnitudeSystem),
					strconv.Itoa(c.Rows),
					strconv.Itoa(c.Built),
					filepath.Base(c.AnnotatedPath),
				})
			}
			table := renderTable(
				[]string{"Catalog", "System", "Rows", "Built", "Annotated Copy"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			)
			fmt.Fprintln(out, table)
			return nil
		},
	}

	cmd.Flags().StringVar(&spectraArchive, "spectra-archive", "", "Seed the run with spectra from an existing archive")
	cmd.Flags().StringVar(&overridesPath, "overrides", "", "YAML file of hand-supplied spectra keyed by object index")
	cmd.Flags().StringVar(&normalizeColumn, "normalize-column", "", "Magnitude column used to rescale normalized spectra")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination path for the spectra archive")
	cmd.Flags().BoolVar(&noExtrapolate, "no-extrapolate", false, "Keep built continua inside the pivots the catalog covers")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run summary as JSON")
	return cmd
}
