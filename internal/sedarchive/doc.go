// Package sedarchive persists spectral catalogs as single-file SQLite
// archives.
//
// An archive holds one row per object spectrum, keyed by object index, with
// the wavelength and flux arrays stored as little-endian float64 blobs and
// each entry tagged with its units. An archive_meta table records the format
// version and the default units the archive was written with. Save writes the
// whole catalog in one transaction and replaces any existing file; Open reads
// it back in full. The conventional output filename keeps the .hdf5 suffix
// the downstream disperser expects, but the container format is this
// package's own.
package sedarchive
