// Package catalog reads and writes the whitespace-delimited ascii tables the
// pipeline consumes: object catalogs with an index column plus per-filter
// magnitude columns, and the instrument zeropoint tables the calibration
// resolver loads.
//
// The expected layout is a block of leading "#" comment lines, one bare
// header row naming the columns, then one row of values per object. Cells are
// kept as strings until a caller asks for a typed view, so unknown columns
// pass through untouched and written output preserves what was read.
//
// Photometric column names follow <instrument>_<filter>[_mod<X>]_<quantity>.
// They are parsed once into ColumnKey values at read time; the rest of the
// pipeline works with those instead of re-splitting name strings.
package catalog
