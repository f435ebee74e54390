package model

// Record is a single row, keyed by column name
type Record map[string]interface{}

// Table is a tabular dataset: an ordered column list plus its rows.
// Rows may omit columns; readers treat a missing key as NULL.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// HasColumn reports whether the table declares the given column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnValues returns the values of one column, row by row.
func (t Table) ColumnValues(name string) []interface{} {
	values := make([]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[name])
	}
	return values
}

// Clone returns a deep copy so transformations never alias the input.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		copied := make(Record, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out.Rows = append(out.Rows, copied)
	}
	return out
}
