package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sedgen/internal/units"
)

const sampleCatalog = `#
# abmag
#
#
index x_or_RA y_or_Dec nircam_f444w_magnitude nircam_f480m_modb_magnitude
1 12.5 45.2 20.0 20.5
2 12.6 45.3 18.0 19.0
`

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.cat")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestParseRoundTrip(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := tbl.NumRows(); got != 2 {
		t.Fatalf("NumRows = %d, want 2", got)
	}
	if got := tbl.Columns(); len(got) != 5 || got[0] != "index" {
		t.Fatalf("Columns = %v", got)
	}
	mags, err := tbl.Floats("nircam_f444w_magnitude")
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if mags[0] != 20.0 || mags[1] != 18.0 {
		t.Fatalf("magnitudes = %v", mags)
	}

	var buf strings.Builder
	if err := tbl.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	again, err := Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got := again.Comments(); len(got) != 4 || got[1] != "abmag" {
		t.Fatalf("comments after round trip = %v", got)
	}
	if again.NumRows() != 2 {
		t.Fatalf("rows after round trip = %d", again.NumRows())
	}
}

func TestParseRejectsRaggedRows(t *testing.T) {
	_, err := Parse(strings.NewReader("index value\n1 2\n3\n"))
	if err == nil || !strings.Contains(err.Error(), "want 2") {
		t.Fatalf("ragged row error = %v", err)
	}
}

func TestReadExtractsMagnitudeSystem(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	tbl, sys, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sys != units.ABMag {
		t.Fatalf("system = %q, want abmag", sys)
	}
	cols := tbl.MagnitudeColumns()
	if len(cols) != 2 || cols[0] != "nircam_f444w_magnitude" {
		t.Fatalf("MagnitudeColumns = %v", cols)
	}
}

func TestReadSchemaErrors(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		wantMsg  string
	}{
		{
			name:     "missing index",
			contents: "# abmag\nident nircam_f444w_magnitude\n1 20.0\n",
			wantMsg:  `missing required column "index"`,
		},
		{
			name:     "index below one",
			contents: "# abmag\nindex nircam_f444w_magnitude\n0 20.0\n",
			wantMsg:  "start at 1 or above",
		},
		{
			name:     "no data rows",
			contents: "# abmag\nindex nircam_f444w_magnitude\n",
			wantMsg:  "no data rows",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCatalog(t, tc.contents)
			_, _, err := Read(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("Read error = %v, want containing %q", err, tc.wantMsg)
			}
		})
	}
}

func TestReadUnknownMagnitudeSystem(t *testing.T) {
	path := writeCatalog(t, "# jmag\nindex nircam_f444w_magnitude\n1 20.0\n")
	_, _, err := Read(path)
	if !errors.Is(err, units.ErrUnknownSystem) {
		t.Fatalf("error = %v, want ErrUnknownSystem", err)
	}

	// A system token after the scanned comment block must not be found.
	path = writeCatalog(t, "#\n#\n#\n#\n# abmag\nindex nircam_f444w_magnitude\n1 20.0\n")
	_, _, err = Read(path)
	if !errors.Is(err, units.ErrUnknownSystem) {
		t.Fatalf("deep token error = %v, want ErrUnknownSystem", err)
	}
}

func TestParseColumnKey(t *testing.T) {
	cases := []struct {
		name string
		want ColumnKey
		ok   bool
	}{
		{"nircam_f444w_magnitude", ColumnKey{NIRCam, "f444w", "", QuantityMagnitude}, true},
		{"nircam_f480m_modb_magnitude", ColumnKey{NIRCam, "f480m", "b", QuantityMagnitude}, true},
		{"NIRCam_F444W_Magnitude", ColumnKey{NIRCam, "f444w", "", QuantityMagnitude}, true},
		{"niriss_f200w_flam", ColumnKey{NIRISS, "f200w", "", QuantityFlux}, true},
		{"fgs_magnitude", ColumnKey{FGS, "", "", QuantityMagnitude}, true},
		{"index", ColumnKey{}, false},
		{"x_or_RA", ColumnKey{}, false},
		{"total_magnitude", ColumnKey{}, false},
		{"nircam_f444w_countrate", ColumnKey{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseColumnKey(tc.name)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseColumnKey(%q) = %+v, %v; want %+v, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFlamColumnName(t *testing.T) {
	if got := FlamColumnName("nircam_f480m_modb_magnitude"); got != "nircam_f480m_modb_flam" {
		t.Fatalf("FlamColumnName = %q", got)
	}
	if got := FlamColumnName("fgs_magnitude"); got != "fgs_flam" {
		t.Fatalf("FlamColumnName = %q", got)
	}
}

func TestAddFloatColumnReplaces(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := tbl.AddFloatColumn("nircam_f444w_flam", []float64{1.5e-20, 9e-20}); err != nil {
		t.Fatalf("AddFloatColumn: %v", err)
	}
	if cols := tbl.FluxColumns(); len(cols) != 1 || cols[0] != "nircam_f444w_flam" {
		t.Fatalf("FluxColumns = %v", cols)
	}
	if err := tbl.AddFloatColumn("nircam_f444w_flam", []float64{2e-20, 8e-20}); err != nil {
		t.Fatalf("replace column: %v", err)
	}
	if got := tbl.Columns(); len(got) != 6 {
		t.Fatalf("replacing a column must not grow the table: %v", got)
	}
	vals, err := tbl.Floats("nircam_f444w_flam")
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if vals[0] != 2e-20 || vals[1] != 8e-20 {
		t.Fatalf("replaced values = %v", vals)
	}
	if err := tbl.AddFloatColumn("short", []float64{1}); err == nil {
		t.Fatal("length mismatch should fail")
	}
}

func TestSelectKeepsKeysAndComments(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sub := tbl.Select([]int{1})
	if sub.NumRows() != 1 {
		t.Fatalf("NumRows = %d, want 1", sub.NumRows())
	}
	idx, err := sub.Indices()
	if err != nil {
		t.Fatalf("Indices: %v", err)
	}
	if idx[0] != 2 {
		t.Fatalf("selected index = %d, want 2", idx[0])
	}
	if _, ok := sub.Key("nircam_f480m_modb_magnitude"); !ok {
		t.Fatal("parsed keys must carry over to the subset")
	}
	if len(sub.Comments()) != 4 {
		t.Fatalf("comments = %v", sub.Comments())
	}
}
