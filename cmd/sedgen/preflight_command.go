package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sedgen/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Verify directories, reference tables, and the archive driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			if jsonOut {
				return writeJSON(cmd, results)
			}

			rows := make([][]string, 0, len(results))
			for _, res := range results {
				status := "OK"
				if !res.Passed {
					status = "ERROR"
				}
				rows = append(rows, []string{res.Name, status, res.Detail})
			}
			table := renderTable(
				[]string{"Check", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, table)
			if !preflight.Passed(results) {
				return errors.New("preflight checks failed")
			}
			fmt.Fprintln(out, "All preflight checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}
