package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sedgen/internal/catalog"
	"sedgen/internal/photom"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect photometric catalogs",
	}

	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogValidateCommand(ctx))

	return catalogCmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <catalog>",
		Short: "Show a catalog's photometric columns and calibration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			tbl, sys, err := catalog.Read(args[0])
			if err != nil {
				return err
			}

			source := photom.NewSource(cfg.Paths.ReferenceDir)
			params, err := source.ColumnParams(tbl, sys)
			if err != nil {
				return fmt.Errorf("resolve calibration: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog: %s\n", filepath.Base(args[0]))
			fmt.Fprintf(out, "System:  %s\n", sys)
			fmt.Fprintf(out, "Rows:    %d\n", tbl.NumRows())

			title := cases.Title(language.English)
			var rows [][]string
			for _, col := range tbl.Columns() {
				key, ok := tbl.Key(col)
				if !ok {
					continue
				}
				pivot := ""
				if p, found := params[col]; found {
					pivot = fmt.Sprintf("%.4f", p.Pivot.Microns())
				}
				rows = append(rows, []string{
					col,
					string(key.Instrument),
					strings.ToUpper(key.Filter),
					title.String(string(key.Quantity)),
					pivot,
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No photometric columns")
				return nil
			}
			table := renderTable(
				[]string{"Column", "Instrument", "Filter", "Quantity", "Pivot (micron)"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			)
			fmt.Fprintln(out, table)
			return nil
		},
	}
}

func newCatalogValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog>...",
		Short: "Check catalogs parse and their filters resolve",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := photom.NewSource(cfg.Paths.ReferenceDir)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failures := 0
			for _, path := range args {
				for _, line := range renderSectionHeader(filepath.Base(path), colorize) {
					fmt.Fprintln(out, line)
				}
				if !validateCatalog(cmd, source, path, colorize) {
					failures++
				}
			}
			if failures > 0 {
				return errors.New("catalog validation failed for " + strconv.Itoa(failures) + " of " + strconv.Itoa(len(args)) + " catalogs")
			}
			return nil
		},
	}
}

func validateCatalog(cmd *cobra.Command, source *photom.Source, path string, colorize bool) bool {
	out := cmd.OutOrStdout()

	tbl, sys, err := catalog.Read(path)
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Schema", statusError, err.Error(), colorize))
		return false
	}

	magCols := tbl.MagnitudeColumns()
	detail := fmt.Sprintf("%d rows, %d magnitude columns", tbl.NumRows(), len(magCols))
	fmt.Fprintln(out, renderStatusLine("Schema", statusOK, detail, colorize))
	fmt.Fprintln(out, renderStatusLine("Magnitude system", statusOK, string(sys), colorize))

	if len(magCols) == 0 {
		fmt.Fprintln(out, renderStatusLine("Calibration", statusWarn, "no magnitude columns to resolve", colorize))
		return true
	}

	params, err := source.ColumnParams(tbl, sys)
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Calibration", statusError, err.Error(), colorize))
		return false
	}
	fmt.Fprintln(out, renderStatusLine("Calibration", statusOK, fmt.Sprintf("%d filters resolved", len(params)), colorize))
	return true
}
