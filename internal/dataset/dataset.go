// Package dataset holds the uploaded tabular data and the deterministic
// analysis engines that run over it: schema inference, numeric metrics
// and categorical distributions.
package dataset

// Record maps a column name to one tagged cell. Missing keys are
// treated as Missing values by every engine.
type Record map[string]Value

// Dataset is an ordered sequence of uniform records. Columns is the
// column set derived from the upload header (first record), in
// declaration order. A Dataset is immutable once ingested.
type Dataset struct {
	Columns []string
	Rows    []Record
}

// FromRows builds a Dataset from a header row and raw string cells.
// Rows shorter than the header are padded with Missing values; cells
// beyond the header are dropped, since the first record defines the
// column set.
func FromRows(headers []string, rows [][]string) Dataset {
	cols := make([]string, len(headers))
	copy(cols, headers)

	records := make([]Record, 0, len(rows))
	for _, raw := range rows {
		rec := make(Record, len(cols))
		for i, name := range cols {
			if i < len(raw) {
				rec[name] = ParseValue(raw[i])
			} else {
				rec[name] = Value{Kind: Missing}
			}
		}
		records = append(records, rec)
	}
	return Dataset{Columns: cols, Rows: records}
}

// Len is the number of records.
func (d Dataset) Len() int { return len(d.Rows) }

// At returns the cell for a column in a row, Missing when absent.
func (d Dataset) At(row int, column string) Value {
	if row < 0 || row >= len(d.Rows) {
		return Value{Kind: Missing}
	}
	return d.Rows[row][column]
}

// Sample returns up to n leading rows as plain JSON-friendly maps,
// used for LLM prompts and upload previews.
func (d Dataset) Sample(n int) []map[string]any {
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	out := make([]map[string]any, 0, n)
	for _, rec := range d.Rows[:n] {
		row := make(map[string]any, len(d.Columns))
		for _, col := range d.Columns {
			row[col] = rec[col].Any()
		}
		out = append(out, row)
	}
	return out
}
