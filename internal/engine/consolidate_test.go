package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkeene/cohort/internal/table"
	"github.com/pkeene/cohort/internal/testutil"
)

func keySet(t *testing.T, tbl *table.Table) map[string]struct{} {
	t.Helper()
	keyCols := tbl.KeyColumns(table.PPMIKeys)
	out := make(map[string]struct{}, tbl.NumRows())
	for row := 0; row < tbl.NumRows(); row++ {
		out[tbl.KeyTuple(keyCols, row)] = struct{}{}
	}
	return out
}

func TestConsolidateEmptySequence(t *testing.T) {
	out, err := Consolidate(nil, ppmiOpts())
	require.NoError(t, err)
	assert.True(t, out.Empty())
}

func TestConsolidateSingleTableUnchanged(t *testing.T) {
	only := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "SCORE"},
		[]string{"1", "BL", "10"},
	)
	out, err := Consolidate([]*table.Table{only}, ppmiOpts())
	require.NoError(t, err)
	assert.Same(t, only, out)
}

func TestConsolidateKeyCoverageOrderIndependent(t *testing.T) {
	t1 := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "SCORE"},
		[]string{"1", "BL", "10"},
		[]string{"2", "BL", "20"},
	)
	t2 := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "MOCA"},
		[]string{"2", "BL", "27"},
		[]string{"3", "V01", "29"},
	)
	t3 := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "HR"},
		[]string{"4", "BL", "64"},
	)

	forward, err := Consolidate([]*table.Table{t1, t2, t3}, ppmiOpts())
	require.NoError(t, err)
	reversed, err := Consolidate([]*table.Table{t3, t2, t1}, ppmiOpts())
	require.NoError(t, err)

	assert.Equal(t, keySet(t, forward), keySet(t, reversed))
}

// The canonical three-table scenario: two visit-level sources sharing a
// SCORE column plus one static source, consolidated then aggregated.
func TestConsolidateEndToEnd(t *testing.T) {
	t1 := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "SCORE"},
		[]string{"1", "BL", "10"},
		[]string{"2", "BL", "20"},
	)
	t2 := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "SCORE"},
		[]string{"1", "BL", "10"},
		[]string{"2", "BL", "25"},
	)
	t3 := testutil.Grid(t,
		[]string{"PATNO", "AGE"},
		[]string{"1", "70"},
	)

	merged, err := Consolidate([]*table.Table{t1, t2, t3}, ppmiOpts())
	require.NoError(t, err)
	out, err := Aggregate(merged, table.PPMIKeys)
	require.NoError(t, err)

	require.Equal(t, 2, out.NumRows())

	row := testutil.RowByKey(t, out, table.PPMIKeys, "1", "BL")
	assert.Equal(t, "10", table.Render(out.Cell("SCORE", row)), "equal values collapse")
	assert.Equal(t, "70", table.Render(out.Cell("AGE", row)), "static AGE broadcast onto the visit row")

	row = testutil.RowByKey(t, out, table.PPMIKeys, "2", "BL")
	assert.Equal(t, "20|25", table.Render(out.Cell("SCORE", row)), "conflict preserved, left before right")
	assert.True(t, table.IsEmpty(out.Cell("AGE", row)), "patient 2 absent from the static source")
}

func TestPairIndex(t *testing.T) {
	t1 := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "A"},
		[]string{"1", "BL", "a"},
		[]string{"1", "BL", "b"}, // duplicate pair
		[]string{"2", "V01", "c"},
	)
	static := testutil.Grid(t, // no EVENT_ID: contributes no pairs
		[]string{"PATNO", "SEX"},
		[]string{"3", "F"},
	)

	idx, err := PairIndex([]*table.Table{t1, static}, table.PPMIKeys)
	require.NoError(t, err)

	assert.Equal(t, []string{"PATNO", "EVENT_ID"}, idx.Columns())
	assert.Equal(t, 2, idx.NumRows())
	assert.Equal(t, []string{"1", "2"}, testutil.Cells(t, idx, "PATNO"))
}

func TestConsolidateOntoIndex(t *testing.T) {
	idx := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID"},
		[]string{"1", "BL"},
		[]string{"2", "BL"},
	)
	// Sources pre-prefixed by the caller, so no collisions occur.
	csf := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "csf_ABETA"},
		[]string{"1", "BL", "850"},
	)
	plasma := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "plasma_NFL"},
		[]string{"2", "BL", "11.2"},
		[]string{"7", "BL", "13.0"}, // outside the index: dropped
	)

	out, err := ConsolidateOntoIndex(idx, []*table.Table{csf, plasma}, ppmiOpts())
	require.NoError(t, err)

	assert.Equal(t, 2, out.NumRows(), "row set bounded by the index")
	assert.Equal(t, []string{"PATNO", "EVENT_ID", "csf_ABETA", "plasma_NFL"}, out.Columns())

	row := testutil.RowByKey(t, out, table.PPMIKeys, "2", "BL")
	assert.Equal(t, "11.2", table.Render(out.Cell("plasma_NFL", row)))
	assert.True(t, table.IsEmpty(out.Cell("csf_ABETA", row)))
}
