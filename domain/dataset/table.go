package dataset

import "fmt"

// Table is one parsed spreadsheet: an ordered set of named columns over
// rows of raw cell text. An empty cell is a missing value. A Table is
// immutable once built; every accessor returns a copy.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable builds a Table from a header and data rows. Rows shorter than
// the header are padded with empty cells. Duplicate column names are an
// error; callers are expected to have normalised the header first.
func NewTable(name string, columns []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("duplicate column %q in %s", col, name)
		}
		index[col] = i
	}

	copied := make([][]string, 0, len(rows))
	for r, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("row %d of %s has %d cells for %d columns", r+1, name, len(row), len(columns))
		}
		padded := make([]string, len(columns))
		copy(padded, row)
		copied = append(copied, padded)
	}

	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    copied,
	}, nil
}

// Name returns the file name the table was loaded from.
func (t *Table) Name() string { return t.name }

// Columns returns the column names in sheet order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether a column with exactly this name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.rows) }

// Column returns the raw cells of the named column in row order.
func (t *Table) Column(name string) ([]string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, true
}

// Row returns a copy of row r.
func (t *Table) Row(r int) []string {
	return append([]string(nil), t.rows[r]...)
}

// Head returns copies of the first n rows.
func (t *Table) Head(n int) [][]string {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	out := make([][]string, n)
	for r := 0; r < n; r++ {
		out[r] = t.Row(r)
	}
	return out
}
