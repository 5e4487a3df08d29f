package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteCatalog writes an ascii object catalog to dir and returns its path.
// The magnitude system lands on the second header comment line, matching the
// layout flight catalogs use.
func WriteCatalog(t testing.TB, dir, name, system, header string, rows ...string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("#\n")
	b.WriteString("# " + system + "\n")
	b.WriteString("#\n")
	b.WriteString(header + "\n")
	for _, row := range rows {
		b.WriteString(row + "\n")
	}

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write catalog %s: %v", path, err)
	}
	return path
}

// WriteZeropoints writes an instrument zeropoint table into dir under the
// standard `<instrument>_zeropoints.list` name and returns its path. Rows use
// the same whitespace layout as the embedded reference tables.
func WriteZeropoints(t testing.TB, dir, instrument, header string, rows ...string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(header + "\n")
	for _, row := range rows {
		b.WriteString(row + "\n")
	}

	path := filepath.Join(dir, instrument+"_zeropoints.list")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write zeropoints %s: %v", path, err)
	}
	return path
}

// WriteFile fills the target path with the given contents, creating parent
// directories as needed.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
