package dataprocessing

// Row holds one record's cells keyed by column name. A key absent from the
// map is the canonical missing marker; an empty string is a present but
// empty cell. The two are distinct: merged-in columns a source file never
// had stay missing, while blank survey answers stay empty strings.
type Row map[string]string

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of named columns plus zero or more rows. Column
// order is significant and survives every pipeline stage. Stage functions
// treat tables as immutable values: they return new tables and leave their
// input untouched.
type Table struct {
	columns []string
	rows    []Row
}

// NewTable creates an empty table with the given column order.
func NewTable(columns []string) *Table {
	return &Table{columns: append([]string(nil), columns...)}
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.columns) }

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.rows) }

// HasColumn reports whether a column with the exact name exists.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// AppendRow adds a row to the table. The table takes ownership of the map.
func (t *Table) AppendRow(row Row) {
	if row == nil {
		row = Row{}
	}
	t.rows = append(t.rows, row)
}

// Cell returns the value at row index i for the named column. The second
// return value is false when the cell is missing (column absent from that
// row) or the index is out of range.
func (t *Table) Cell(i int, column string) (string, bool) {
	if i < 0 || i >= len(t.rows) {
		return "", false
	}
	v, ok := t.rows[i][column]
	return v, ok
}

// ColumnValues returns the named column's values in row order, with missing
// cells rendered as empty strings. The second return value reports whether
// the column exists at all.
func (t *Table) ColumnValues(name string) ([]string, bool) {
	if !t.HasColumn(name) {
		return nil, false
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[name]
	}
	return values, true
}

// Records materializes all rows in column order for serialization. Missing
// cells become empty fields, indistinguishable from present-but-empty ones;
// that distinction only exists in memory.
func (t *Table) Records() [][]string {
	records := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rec := make([]string, len(t.columns))
		for j, col := range t.columns {
			rec[j] = row[col]
		}
		records[i] = rec
	}
	return records
}

// withColumns returns a table sharing no structure with t, keeping only the
// given columns in the given order. Row cells outside the kept set are
// dropped.
func (t *Table) withColumns(columns []string) *Table {
	out := NewTable(columns)
	for _, row := range t.rows {
		next := make(Row, len(columns))
		for _, col := range columns {
			if v, ok := row[col]; ok {
				next[col] = v
			}
		}
		out.rows = append(out.rows, next)
	}
	return out
}
