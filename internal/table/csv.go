package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV serializes the table with a header row. Null cells render
// as empty fields, matching the source extracts' convention.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, t.NumCols())
	for row := 0; row < t.NumRows(); row++ {
		for i, c := range t.cols {
			record[i] = Render(c.Cells[row])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
