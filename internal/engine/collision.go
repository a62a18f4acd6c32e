package engine

import (
	"fmt"

	"github.com/pkeene/cohort/internal/table"
)

// Collision markers appended to same-named non-key columns by a merge
// step. They exist only between joining and resolution; no table the
// engine returns carries them.
const (
	LeftMarker  = "_x"
	RightMarker = "_y"
)

// ResolveCollisions merges the collision pairs for the given base
// names back into single columns.
//
// Only the bases the caller names are touched. A source column that
// natively ends in "_x" or "_y" is never mistaken for a collision pair:
// the merge step that produced the pairs is the only caller, and it
// passes exactly the bases it marked.
//
// Per base: if only one marked variant exists it is renamed to the base
// name; if both exist each row's pair is combined under the
// value-combination rule and the marked columns are dropped. Row count
// and row order are preserved.
func ResolveCollisions(t *table.Table, bases []string) (*table.Table, error) {
	if len(bases) == 0 {
		return t, nil
	}

	var cols []table.Column
	handled := make(map[string]bool, len(bases)*2)
	combinedFor := make(map[string]string, len(bases)) // marked name -> base

	for _, base := range bases {
		left, right := base+LeftMarker, base+RightMarker
		hasLeft, hasRight := t.HasColumn(left), t.HasColumn(right)
		switch {
		case hasLeft && hasRight:
			combinedFor[left] = base
			handled[right] = true
		case hasLeft:
			combinedFor[left] = base
		case hasRight:
			combinedFor[right] = base
		default:
			return nil, fmt.Errorf("resolve collisions: no marked columns for base %q", base)
		}
	}

	for _, name := range t.Columns() {
		if handled[name] {
			continue
		}
		base, marked := combinedFor[name]
		if !marked {
			c, _ := t.Column(name)
			cols = append(cols, c)
			continue
		}
		left, right := base+LeftMarker, base+RightMarker
		if !t.HasColumn(left) || !t.HasColumn(right) {
			// Lone variant: rename in place.
			c, _ := t.Column(name)
			cols = append(cols, table.Column{Name: base, Cells: c.Cells})
			continue
		}
		cells := make([]table.Value, t.NumRows())
		for row := range cells {
			cells[row] = Combine(t.Cell(left, row), t.Cell(right, row))
		}
		cols = append(cols, table.Column{Name: base, Cells: cells})
	}

	return table.New(cols...)
}
