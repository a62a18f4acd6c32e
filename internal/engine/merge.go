package engine

import (
	"github.com/pkeene/cohort/internal/table"
)

// JoinType selects how the pairwise merger treats keys present on only
// one side.
type JoinType int

const (
	// JoinOuter keeps the union of keys from both sides. A patient or
	// visit present in only one source is retained with nulls for the
	// other source's columns. The default for modality consolidation.
	JoinOuter JoinType = iota

	// JoinLeft keeps only keys already present in the left
	// (accumulator) table. Used when folding large pre-prefixed sources
	// onto a precomputed key index, trading completeness for a bounded
	// row set.
	JoinLeft
)

// Options configures a merge or consolidation call site.
type Options struct {
	Keys table.Keys
	Join JoinType
}

// Merge joins two tables on the adaptively selected key set and
// resolves every column collision the join produced.
//
// Key selection: the join is on (primary, secondary) when both sides
// carry the secondary key, otherwise on the primary key alone. A side
// without the secondary key is broadcast across all rows of the other
// side sharing its primary key (one static record maps onto many visit
// records).
//
// Any non-key column name present in both inputs becomes a collision
// pair and is resolved before returning; the result never carries
// marked columns. Key columns are never marked.
//
// Returns ErrMissingPrimaryKey when either input lacks the primary key.
func Merge(left, right *table.Table, opts Options) (*table.Table, error) {
	keys := opts.Keys
	if !left.HasColumn(keys.Primary) {
		return nil, missingKey("left", keys.Primary)
	}
	if !right.HasColumn(keys.Primary) {
		return nil, missingKey("right", keys.Primary)
	}

	keyCols := []string{keys.Primary}
	if keys.Secondary != "" && left.HasColumn(keys.Secondary) && right.HasColumn(keys.Secondary) {
		keyCols = append(keyCols, keys.Secondary)
	}
	isKey := make(map[string]bool, len(keyCols))
	for _, k := range keyCols {
		isKey[k] = true
	}

	// Shared non-key names become collision pairs.
	var bases []string
	collides := make(map[string]bool)
	for _, name := range right.Columns() {
		if !isKey[name] && left.HasColumn(name) {
			bases = append(bases, name)
			collides[name] = true
		}
	}

	// Index the right side by key tuple, preserving row order.
	rightRows := make(map[string][]int, right.NumRows())
	for row := 0; row < right.NumRows(); row++ {
		tuple := right.KeyTuple(keyCols, row)
		rightRows[tuple] = append(rightRows[tuple], row)
	}

	// Match plan: (left row or -1, right row or -1) pairs.
	type match struct{ l, r int }
	var plan []match
	rightMatched := make(map[int]bool, right.NumRows())
	for row := 0; row < left.NumRows(); row++ {
		tuple := left.KeyTuple(keyCols, row)
		rs := rightRows[tuple]
		if len(rs) == 0 {
			plan = append(plan, match{l: row, r: -1})
			continue
		}
		for _, r := range rs {
			plan = append(plan, match{l: row, r: r})
			rightMatched[r] = true
		}
	}
	if opts.Join == JoinOuter {
		for row := 0; row < right.NumRows(); row++ {
			if !rightMatched[row] {
				plan = append(plan, match{l: -1, r: row})
			}
		}
	}

	cellAt := func(t *table.Table, name string, row int) table.Value {
		if row < 0 {
			return table.Null{}
		}
		return t.Cell(name, row)
	}

	var cols []table.Column

	// Key columns: taken from whichever side the row came from.
	for _, k := range keyCols {
		cells := make([]table.Value, len(plan))
		for i, m := range plan {
			if m.l >= 0 {
				cells[i] = cellAt(left, k, m.l)
			} else {
				cells[i] = cellAt(right, k, m.r)
			}
		}
		cols = append(cols, table.Column{Name: k, Cells: cells})
	}

	// Left non-key columns, marked when collided.
	for _, name := range left.Columns() {
		if isKey[name] {
			continue
		}
		outName := name
		if collides[name] {
			outName = name + LeftMarker
		}
		cells := make([]table.Value, len(plan))
		for i, m := range plan {
			cells[i] = cellAt(left, name, m.l)
		}
		cols = append(cols, table.Column{Name: outName, Cells: cells})
	}

	// Right non-key columns, marked when collided.
	for _, name := range right.Columns() {
		if isKey[name] {
			continue
		}
		outName := name
		if collides[name] {
			outName = name + RightMarker
		}
		cells := make([]table.Value, len(plan))
		for i, m := range plan {
			cells[i] = cellAt(right, name, m.r)
		}
		cols = append(cols, table.Column{Name: outName, Cells: cells})
	}

	joined, err := table.New(cols...)
	if err != nil {
		return nil, err
	}
	return ResolveCollisions(joined, bases)
}
