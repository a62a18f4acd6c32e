// Package testutil provides table fixtures shared by engine, loader,
// and harness tests.
package testutil

import (
	"testing"

	"github.com/pkeene/cohort/internal/table"
)

// Grid builds a table from a header and raw cell rows, classifying each
// cell exactly the way the CSV loader does (empty -> Null, decimal ->
// Number, otherwise Text). Fixture rows read like the source extracts:
//
//	testutil.Grid(t,
//	    []string{"PATNO", "EVENT_ID", "SCORE"},
//	    []string{"1", "BL", "10"},
//	    []string{"2", "BL", "20"},
//	)
//
// Key columns stay Text so identifiers keep their formatting.
func Grid(t *testing.T, header []string, rows ...[]string) *table.Table {
	t.Helper()
	return GridKeyed(t, table.PPMIKeys, header, rows...)
}

// GridKeyed is Grid with explicit key configuration.
func GridKeyed(t *testing.T, keys table.Keys, header []string, rows ...[]string) *table.Table {
	t.Helper()
	cols := make([]table.Column, len(header))
	for i, name := range header {
		cells := make([]table.Value, len(rows))
		for j, row := range rows {
			if len(row) != len(header) {
				t.Fatalf("grid row %d has %d cells, want %d", j, len(row), len(header))
			}
			raw := row[i]
			if name == keys.Primary || name == keys.Secondary {
				if raw == "" {
					cells[j] = table.Null{}
				} else {
					cells[j] = table.Text(raw)
				}
				continue
			}
			cells[j] = table.ParseValue(raw)
		}
		cols[i] = table.Column{Name: name, Cells: cells}
	}
	tbl, err := table.New(cols...)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return tbl
}

// Cells extracts a column's rendered values for assertions.
func Cells(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	if !tbl.HasColumn(name) {
		t.Fatalf("table has no column %q (have %v)", name, tbl.Columns())
	}
	out := make([]string, tbl.NumRows())
	for row := range out {
		out[row] = table.Render(tbl.Cell(name, row))
	}
	return out
}

// RowByKey finds the row index whose key columns render to the given
// values, or fails the test.
func RowByKey(t *testing.T, tbl *table.Table, keys table.Keys, primary, secondary string) int {
	t.Helper()
	for row := 0; row < tbl.NumRows(); row++ {
		if table.Render(tbl.Cell(keys.Primary, row)) != primary {
			continue
		}
		if secondary == "" || table.Render(tbl.Cell(keys.Secondary, row)) == secondary {
			return row
		}
	}
	t.Fatalf("no row with key (%s, %s)", primary, secondary)
	return -1
}
