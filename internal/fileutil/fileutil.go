// Package fileutil provides the small filename helpers the pipeline's
// output naming rules are built from.
package fileutil

import (
	"path/filepath"
	"strings"
)

// Stem returns the final path element with its extension removed.
// "data/ptsrc.cat" becomes "ptsrc"; a dotless name comes back unchanged.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// InsertSuffix splices suffix between a filename's stem and its extension,
// keeping the directory part intact. "data/ptsrc.cat" with "_with_flambda"
// becomes "data/ptsrc_with_flambda.cat"; extensionless names get a plain
// append.
func InsertSuffix(path, suffix string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+suffix+ext)
}
