package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Table is an in-memory ascii table. Cells are stored column-major as the
// original strings; typed accessors parse on demand.
type Table struct {
	comments []string
	names    []string
	index    map[string]int
	keys     map[string]ColumnKey
	cells    [][]string
}

// Parse reads a table from r. Leading "#" lines become comments, the first
// bare line is the header, and every following non-blank line must carry one
// value per column.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{
		index: make(map[string]int),
		keys:  make(map[string]ColumnKey),
	}
	var rows [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if t.names == nil {
				t.comments = append(t.comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			}
			continue
		}
		fields := strings.Fields(line)
		if t.names == nil {
			for i, name := range fields {
				if _, dup := t.index[name]; dup {
					return nil, fmt.Errorf("duplicate column %q in header", name)
				}
				t.index[name] = i
				if key, ok := ParseColumnKey(name); ok {
					t.keys[name] = key
				}
			}
			t.names = fields
			continue
		}
		if len(fields) != len(t.names) {
			return nil, fmt.Errorf("line %d has %d values, want %d", lineNo, len(fields), len(t.names))
		}
		rows = append(rows, fields)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if t.names == nil {
		return nil, errors.New("no header row found")
	}
	t.cells = make([][]string, len(t.names))
	for c := range t.names {
		col := make([]string, len(rows))
		for r, row := range rows {
			col[r] = row[c]
		}
		t.cells[c] = col
	}
	return t, nil
}

// ParseFile reads a table from disk.
func ParseFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// Comments returns the header comment lines, "#" markers stripped.
func (t *Table) Comments() []string {
	return slices.Clone(t.comments)
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	return slices.Clone(t.names)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if len(t.cells) == 0 {
		return 0
	}
	return len(t.cells[0])
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Key returns the parsed photometric key for a column, if it has one.
func (t *Table) Key(name string) (ColumnKey, bool) {
	key, ok := t.keys[name]
	return key, ok
}

// MagnitudeColumns returns, in table order, the columns whose parsed key
// marks them as instrument magnitudes. Columns that merely mention
// "magnitude" without a recognized instrument prefix are not included.
func (t *Table) MagnitudeColumns() []string {
	var cols []string
	for _, name := range t.names {
		if key, ok := t.keys[name]; ok && key.Quantity == QuantityMagnitude {
			cols = append(cols, name)
		}
	}
	return cols
}

// FluxColumns returns, in table order, the columns whose parsed key marks
// them as flam flux densities.
func (t *Table) FluxColumns() []string {
	var cols []string
	for _, name := range t.names {
		if key, ok := t.keys[name]; ok && key.Quantity == QuantityFlux {
			cols = append(cols, name)
		}
	}
	return cols
}

// Strings returns the raw cells of a column.
func (t *Table) Strings(name string) ([]string, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("no column %q", name)
	}
	return slices.Clone(t.cells[c]), nil
}

// Floats parses a column as float64 values. Non-numeric cells fail with the
// column and row named; nan and inf spellings parse and propagate.
func (t *Table) Floats(name string) ([]float64, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("no column %q", name)
	}
	vals := make([]float64, len(t.cells[c]))
	for r, cell := range t.cells[c] {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %q is not a number", name, r+1, cell)
		}
		vals[r] = v
	}
	return vals, nil
}

// Ints parses a column as int64 values.
func (t *Table) Ints(name string) ([]int64, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("no column %q", name)
	}
	vals := make([]int64, len(t.cells[c]))
	for r, cell := range t.cells[c] {
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %q is not an integer", name, r+1, cell)
		}
		vals[r] = v
	}
	return vals, nil
}

// Indices parses the object index column.
func (t *Table) Indices() ([]int64, error) {
	return t.Ints(IndexColumn)
}

// AddFloatColumn appends a float column, or replaces it when the name already
// exists. Values are formatted with shortest round-trip precision so a
// written table reloads to the same numbers.
func (t *Table) AddFloatColumn(name string, values []float64) error {
	if len(values) != t.NumRows() {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.NumRows())
	}
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if c, ok := t.index[name]; ok {
		t.cells[c] = cells
		return nil
	}
	t.index[name] = len(t.names)
	t.names = append(t.names, name)
	if key, ok := ParseColumnKey(name); ok {
		t.keys[name] = key
	}
	t.cells = append(t.cells, cells)
	return nil
}

// Select returns a new table holding only the given row positions, in the
// given order. Comments, column names, and parsed keys carry over.
func (t *Table) Select(rows []int) *Table {
	out := &Table{
		comments: slices.Clone(t.comments),
		names:    slices.Clone(t.names),
		index:    make(map[string]int, len(t.index)),
		keys:     make(map[string]ColumnKey, len(t.keys)),
		cells:    make([][]string, len(t.cells)),
	}
	for name, c := range t.index {
		out.index[name] = c
	}
	for name, key := range t.keys {
		out.keys[name] = key
	}
	for c := range t.cells {
		col := make([]string, len(rows))
		for i, r := range rows {
			col[i] = t.cells[c][r]
		}
		out.cells[c] = col
	}
	return out
}

// Write renders the table in the same layout Parse reads.
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, comment := range t.comments {
		if comment == "" {
			fmt.Fprintln(bw, "#")
			continue
		}
		fmt.Fprintf(bw, "# %s\n", comment)
	}
	fmt.Fprintln(bw, strings.Join(t.names, " "))
	for r := 0; r < t.NumRows(); r++ {
		for c := range t.names {
			if c > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(t.cells[c][r]); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the table to disk, replacing any existing file.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
