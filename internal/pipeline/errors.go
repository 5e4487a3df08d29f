package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"sedgen/internal/photom"
	"sedgen/internal/sed"
	"sedgen/internal/sedarchive"
	"sedgen/internal/units"
)

// Sentinel markers for the failure classes a run can report. Callers test
// them with errors.Is to decide how a failure should be presented.
var (
	ErrSchema        = errors.New("catalog schema error")
	ErrMagSystem     = errors.New("magnitude system error")
	ErrCalibration   = errors.New("calibration error")
	ErrNormalization = errors.New("normalization error")
	ErrArchive       = errors.New("spectra archive error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. A nil marker leaves the
// error unmarked.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	switch {
	case marker != nil && err != nil:
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	case marker != nil:
		return fmt.Errorf("%w: %s", marker, detail)
	case err != nil:
		return fmt.Errorf("%s: %w", detail, err)
	default:
		return errors.New(detail)
	}
}

// Classify maps a failure surfaced by a lower layer onto the marker that
// describes it. Causes outside the taxonomy return nil.
func Classify(err error) error {
	switch {
	case errors.Is(err, units.ErrUnknownSystem):
		return ErrMagSystem
	case errors.Is(err, photom.ErrNoCalibration):
		return ErrCalibration
	case errors.Is(err, sed.ErrUnmatchedNormalized):
		return ErrNormalization
	case errors.Is(err, sedarchive.ErrFormatMismatch):
		return ErrArchive
	}
	return nil
}

// markerOr classifies err, falling back to the stage's own marker when the
// cause is outside the taxonomy.
func markerOr(err, fallback error) error {
	if marker := Classify(err); marker != nil {
		return marker
	}
	return fallback
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
