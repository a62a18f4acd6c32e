package engine

import (
	"log/slog"

	"github.com/pkeene/cohort/internal/table"
)

// Aggregate collapses rows sharing identical key values into one row
// per distinct key tuple.
//
// Grouping is by (primary, secondary) when the table carries both keys,
// by primary alone otherwise. Groups of size one pass through
// unchanged; larger groups combine each non-key column across the
// group's rows, in row order, under the value-combination rule.
//
// Aggregate is idempotent: re-applying it to its own output changes
// nothing, because Combine re-splits pipe-joined tokens before
// deduplicating.
//
// A table without the primary key is returned unchanged - there is
// nothing to group by. Callers should not hand the engine such tables
// in the first place (see Merge).
func Aggregate(t *table.Table, keys table.Keys) (*table.Table, error) {
	keyCols := t.KeyColumns(keys)
	if len(keyCols) == 0 || t.Empty() {
		return t, nil
	}

	groups := make(map[string][]int, t.NumRows())
	var order []string
	for row := 0; row < t.NumRows(); row++ {
		tuple := t.KeyTuple(keyCols, row)
		if _, seen := groups[tuple]; !seen {
			order = append(order, tuple)
		}
		groups[tuple] = append(groups[tuple], row)
	}
	if len(order) == t.NumRows() {
		return t, nil // already unique per key tuple
	}

	isKey := make(map[string]bool, len(keyCols))
	for _, k := range keyCols {
		isKey[k] = true
	}

	cols := make([]table.Column, 0, t.NumCols())
	for _, name := range t.Columns() {
		cells := make([]table.Value, 0, len(order))
		for _, tuple := range order {
			rows := groups[tuple]
			if isKey[name] || len(rows) == 1 {
				cells = append(cells, t.Cell(name, rows[0]))
				continue
			}
			var acc table.Value = table.Null{}
			for _, row := range rows {
				acc = Combine(acc, t.Cell(name, row))
			}
			cells = append(cells, acc)
		}
		cols = append(cols, table.Column{Name: name, Cells: cells})
	}
	slog.Debug("aggregated duplicate key tuples",
		"keys", keyCols, "rows_in", t.NumRows(), "rows_out", len(order),
		"collapsed", t.NumRows()-len(order))

	return table.New(cols...)
}
