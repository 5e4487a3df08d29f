package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sedgen/internal/sedarchive"
)

type inspectEntry struct {
	Index      int64   `json:"index"`
	Samples    int     `json:"samples"`
	MinMicrons float64 `json:"min_microns"`
	MaxMicrons float64 `json:"max_microns"`
	Normalized bool    `json:"normalized"`
}

type inspectReport struct {
	Path    string         `json:"path"`
	Objects int            `json:"objects"`
	Spectra []inspectEntry `json:"spectra"`
}

func newInspectCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "inspect <archive>",
		Short:       "Summarize the spectra stored in an archive",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := sedarchive.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			report := inspectReport{Path: args[0], Objects: set.Len()}
			samples := 0
			for _, idx := range set.Indices() {
				sp, _ := set.Get(idx)
				waves := sp.Wavelengths.Microns()
				samples += sp.Len()
				report.Spectra = append(report.Spectra, inspectEntry{
					Index:      idx,
					Samples:    sp.Len(),
					MinMicrons: waves[0],
					MaxMicrons: waves[len(waves)-1],
					Normalized: sp.Fluxes.Normalized(),
				})
			}

			if jsonOut {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			if report.Objects == 0 {
				fmt.Fprintln(out, "Archive holds no spectra")
				return nil
			}

			rows := make([][]string, 0, len(report.Spectra))
			for _, entry := range report.Spectra {
				rows = append(rows, []string{
					strconv.FormatInt(entry.Index, 10),
					strconv.Itoa(entry.Samples),
					fmt.Sprintf("%.4f", entry.MinMicrons),
					fmt.Sprintf("%.4f", entry.MaxMicrons),
					yesNo(entry.Normalized),
				})
			}
			table := renderTable(
				[]string{"Index", "Samples", "Min (micron)", "Max (micron)", "Normalized"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
			)
			fmt.Fprintln(out, table)
			message.NewPrinter(language.English).Fprintf(out,
				"%d spectra, %d samples in %s\n", report.Objects, samples, report.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the summary as JSON")
	return cmd
}
