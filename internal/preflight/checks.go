package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"sedgen/internal/catalog"
	"sedgen/internal/photom"
	"sedgen/internal/sedarchive"
)

// instrumentLabels give the reference-table checks stable display names.
var instrumentLabels = map[catalog.Instrument]string{
	catalog.NIRCam: "NIRCam zeropoints",
	catalog.NIRISS: "NIRISS zeropoints",
	catalog.FGS:    "Guider zeropoints",
}

// CheckReferenceTables loads and validates the zeropoint table of every
// supported instrument, one result per instrument. An empty referenceDir
// checks the embedded copies; otherwise on-disk overrides win.
func CheckReferenceTables(referenceDir string) []Result {
	source := photom.NewSource(referenceDir)
	results := make([]Result, 0, len(instrumentLabels))
	for _, inst := range catalog.Instruments() {
		name := instrumentLabels[inst]
		if err := source.Validate(inst); err != nil {
			results = append(results, Result{Name: name, Detail: err.Error()})
			continue
		}
		detail := "embedded table ok"
		if referenceDir != "" {
			detail = fmt.Sprintf("table ok (reference dir %s)", referenceDir)
		}
		results = append(results, Result{Name: name, Passed: true, Detail: detail})
	}
	return results
}

// CheckArchiveDriver verifies the sqlite driver backing spectra archives can
// open and query a database. It uses a 5-second timeout.
func CheckArchiveDriver(ctx context.Context) Result {
	const name = "Archive driver"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sedarchive.VerifyDriver(checkCtx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "sqlite ok"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
