package features

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Table is an ordered set of rows sharing named float64 columns. Values are
// stored column-major. Each row carries a label: the row's position in the
// table it was cut from, so windows keep their source positions.
//
// Stages never modify a Table they receive; they build a new one.
type Table struct {
	columns []string
	index   map[string]int
	data    [][]float64
	labels  []int
}

// NewTable returns an empty table with the given columns.
func NewTable(columns []string) (*Table, error) {
	t := &Table{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
		data:    make([][]float64, len(columns)),
	}
	copy(t.columns, columns)
	for i, name := range columns {
		if _, ok := t.index[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnExists, name)
		}
		t.index[name] = i
	}
	return t, nil
}

// FromColumns builds a table from equally sized column slices. The slices are
// copied.
func FromColumns(names []string, cols [][]float64) (*Table, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("%d column names for %d columns", len(names), len(cols))
	}
	t, err := NewTable(names)
	if err != nil {
		return nil, err
	}
	rows := 0
	if len(cols) > 0 {
		rows = len(cols[0])
	}
	for i, c := range cols {
		if len(c) != rows {
			return nil, fmt.Errorf("column %s has %d rows, want %d", names[i], len(c), rows)
		}
		t.data[i] = append([]float64(nil), c...)
	}
	t.labels = sequence(rows)
	return t, nil
}

// AppendRow adds a row labelled with its position.
func (t *Table) AppendRow(values []float64) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: got %d values for %d columns", ErrRowLength, len(values), len(t.columns))
	}
	for i, v := range values {
		t.data[i] = append(t.data[i], v)
	}
	t.labels = append(t.labels, len(t.labels))
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.labels) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// ColumnIndex returns the position of a column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]float64, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), t.data[i]...), true
}

// Value returns the value at row r, column c.
func (t *Table) Value(r, c int) float64 { return t.data[c][r] }

// Row returns a copy of row r in column order.
func (t *Table) Row(r int) []float64 {
	row := make([]float64, len(t.columns))
	for c := range t.columns {
		row[c] = t.data[c][r]
	}
	return row
}

// Label returns the source position of row r.
func (t *Table) Label(r int) int { return t.labels[r] }

// Labels returns a copy of all row labels.
func (t *Table) Labels() []int {
	return append([]int(nil), t.labels...)
}

// Select returns a copy restricted to the named columns, in the given order.
func (t *Table) Select(columns []string) (*Table, error) {
	out, err := NewTable(columns)
	if err != nil {
		return nil, err
	}
	for i, name := range columns {
		c, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		out.data[i] = append([]float64(nil), t.data[c]...)
	}
	out.labels = t.Labels()
	return out, nil
}

// Dense returns the table as a rows x columns matrix. It returns nil for a
// table with no rows or no columns, which gonum cannot represent.
func (t *Table) Dense() *mat.Dense {
	if t.Len() == 0 || len(t.columns) == 0 {
		return nil
	}
	m := mat.NewDense(t.Len(), len(t.columns), nil)
	for c, col := range t.data {
		m.SetCol(c, col)
	}
	return m
}

// ColumnStats summarises one column.
type ColumnStats struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary returns per-column statistics. Empty tables yield zero values.
func (t *Table) Summary() []ColumnStats {
	out := make([]ColumnStats, len(t.columns))
	for c, name := range t.columns {
		out[c].Column = name
		col := t.data[c]
		if len(col) == 0 {
			continue
		}
		out[c].Mean, out[c].StdDev = stat.MeanStdDev(col, nil)
		if len(col) == 1 {
			out[c].StdDev = 0
		}
		out[c].Min = floats.Min(col)
		out[c].Max = floats.Max(col)
	}
	return out
}

// slice copies rows [from, to) keeping their labels.
func (t *Table) slice(from, to int) *Table {
	out := t.emptyLike()
	for c := range t.data {
		out.data[c] = append([]float64(nil), t.data[c][from:to]...)
	}
	out.labels = append([]int(nil), t.labels[from:to]...)
	return out
}

// emptyLike returns a table with the same columns and no rows.
func (t *Table) emptyLike() *Table {
	out := &Table{
		columns: t.Columns(),
		index:   make(map[string]int, len(t.columns)),
		data:    make([][]float64, len(t.columns)),
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	return out
}

// project copies the table keeping only columns for which keep returns true.
func (t *Table) project(keep func(name string) bool) *Table {
	out := &Table{index: make(map[string]int)}
	for c, name := range t.columns {
		if !keep(name) {
			continue
		}
		out.index[name] = len(out.columns)
		out.columns = append(out.columns, name)
		out.data = append(out.data, append([]float64(nil), t.data[c]...))
	}
	out.labels = t.Labels()
	return out
}

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}
