// Package sed builds, merges, and rescales spectral energy distributions.
//
// A Spectrum pairs a wavelength grid with a flux series, each carrying its
// unit. A Set keys spectra by object index and always iterates in ascending
// index order, so everything downstream of a merge is deterministic.
//
// Spectra arrive from three places: hand-supplied YAML files, a previously
// written archive, and the continuum builder, which synthesizes a coarse
// spectrum for every catalog object that has no supplied spectrum by placing
// one control point per filter at its pivot wavelength. Supplied spectra in
// normalized (percent) units are rescaled to absolute flambda levels using a
// catalog magnitude before anything is written out.
package sed
