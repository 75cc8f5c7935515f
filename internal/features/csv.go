package features

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes the table as CSV: a header of column names, then one
// record per row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, t.NumColumns())
	for r := 0; r < t.Len(); r++ {
		for c := range record {
			record[c] = strconv.FormatFloat(t.Value(r, c), 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", r, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
