package pipeline

import (
	"sedgen/internal/fileutil"
)

// outputExt is the suffix downstream tooling expects on spectra archives.
const outputExt = ".hdf5"

// DefaultOutputName returns the conventional archive filename for a run:
// source_sed_file_from_<catalog>[_and_<spectra>].hdf5, built from the base
// name of the primary catalog and, when spectra were seeded from a file, the
// base name of that archive.
func DefaultOutputName(catalogPath, spectraArchive string) string {
	name := "source_sed_file_from_" + fileutil.Stem(catalogPath)
	if spectraArchive != "" {
		name += "_and_" + fileutil.Stem(spectraArchive)
	}
	return name + outputExt
}

// AnnotatedCatalogPath returns where the flux-annotated copy of a catalog is
// written: next to the original, with _with_flambda before the extension.
func AnnotatedCatalogPath(catalogPath string) string {
	return fileutil.InsertSuffix(catalogPath, "_with_flambda")
}
