package table

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortByKeys returns a new table with rows ordered by key tuple.
//
// Ordering uses numeric-aware collation so patient "99" sorts before
// "100" even though identifiers are opaque text. The engine itself
// never depends on row order beyond encounter order; this exists for
// deterministic serialized output.
func (t *Table) SortByKeys(keys Keys) *Table {
	keyCols := t.KeyColumns(keys)
	if len(keyCols) == 0 || t.NumRows() < 2 {
		return t
	}

	coll := collate.New(language.Und, collate.Numeric)
	order := make([]int, t.NumRows())
	for i := range order {
		order[i] = i
	}
	tuples := make([][]string, t.NumRows())
	for i := range tuples {
		parts := make([]string, len(keyCols))
		for j, name := range keyCols {
			parts[j] = Render(t.Cell(name, i))
		}
		tuples[i] = parts
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := tuples[order[a]], tuples[order[b]]
		for i := range ta {
			if c := coll.CompareString(ta[i], tb[i]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	out := &Table{byName: make(map[string]int, len(t.cols))}
	for _, c := range t.cols {
		cells := make([]Value, len(order))
		for i, src := range order {
			cells[i] = c.Cells[src]
		}
		// append cannot fail: names and lengths come from a valid table.
		_ = out.append(Column{Name: c.Name, Cells: cells})
	}
	return out
}
