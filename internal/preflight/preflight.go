package preflight

import (
	"context"

	"sedgen/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Directory checks run only for paths that are configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Log directory (always checked)
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	// Output directory (when configured)
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}

	// Watch directory (when configured)
	if cfg.Watch.Dir != "" {
		results = append(results, CheckDirectoryAccess("Watch directory", cfg.Watch.Dir))
	}

	// Zeropoint reference tables, embedded or overridden on disk
	results = append(results, CheckReferenceTables(cfg.Paths.ReferenceDir)...)

	// Archive storage driver
	results = append(results, CheckArchiveDriver(ctx))

	return results
}

// Passed reports whether every result in the slice passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
