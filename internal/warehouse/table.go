package warehouse

// Table is the in-memory result of one warehouse query: an ordered set
// of named columns and the rows beneath them. It is transient; nothing
// is persisted across runs.
type Table struct {
	Columns []string
	Rows    [][]any
}

// RowCount returns the number of data rows (the header is not a row).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Clone returns an independent copy of the table. Cell values are
// copied by assignment; rows and the column slice are fresh slices, so
// mutating the clone never touches the original.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]any(nil), row...)
	}
	return out
}
