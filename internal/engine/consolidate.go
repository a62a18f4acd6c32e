package engine

import (
	"github.com/pkeene/cohort/internal/table"
)

// Consolidate folds Merge over an ordered sequence of tables.
//
// The accumulator is seeded with the first table; each subsequent table
// is merged in with the configured join type. Input order affects only
// the ordering of pipe-joined tokens, never key coverage. An empty
// sequence yields an empty table; a single table is returned unchanged.
func Consolidate(tables []*table.Table, opts Options) (*table.Table, error) {
	if len(tables) == 0 {
		return table.New()
	}
	acc := tables[0]
	for _, next := range tables[1:] {
		merged, err := Merge(acc, next, opts)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	return acc, nil
}

// ConsolidateOntoIndex left-joins each table onto a precomputed key
// index, in sequence.
//
// The index is typically the union of (primary, secondary) pairs
// observed across all sources; anchoring to it bounds the row set when
// merging many large heterogeneous sources whose outer join would
// explode. Keys absent from the index are dropped - callers choose
// this trade-off deliberately.
func ConsolidateOntoIndex(index *table.Table, tables []*table.Table, opts Options) (*table.Table, error) {
	opts.Join = JoinLeft
	acc := index
	for _, next := range tables {
		merged, err := Merge(acc, next, opts)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	return acc, nil
}

// PairIndex builds the union key index over the given tables: one row
// per distinct key tuple, in first-encounter order across the sequence.
// Tables that do not carry every key column contribute nothing; their
// static records only attach to pairs some visit-level source defines.
func PairIndex(tables []*table.Table, keys table.Keys) (*table.Table, error) {
	keyCols := []string{keys.Primary}
	if keys.Secondary != "" {
		keyCols = append(keyCols, keys.Secondary)
	}
	cells := make([][]table.Value, len(keyCols))
	seen := make(map[string]struct{})
	for _, t := range tables {
		if len(t.KeyColumns(keys)) != len(keyCols) {
			continue
		}
		for row := 0; row < t.NumRows(); row++ {
			tuple := t.KeyTuple(keyCols, row)
			if _, dup := seen[tuple]; dup {
				continue
			}
			seen[tuple] = struct{}{}
			for i, name := range keyCols {
				cells[i] = append(cells[i], t.Cell(name, row))
			}
		}
	}
	cols := make([]table.Column, len(keyCols))
	for i, name := range keyCols {
		cols[i] = table.Column{Name: name, Cells: cells[i]}
	}
	return table.New(cols...)
}
