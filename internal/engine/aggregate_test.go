package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkeene/cohort/internal/table"
	"github.com/pkeene/cohort/internal/testutil"
)

func TestAggregateUniquePerKeyTuple(t *testing.T) {
	in := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "SCORE", "NOTE"},
		[]string{"1", "BL", "10", "first"},
		[]string{"1", "BL", "12", ""},
		[]string{"1", "V01", "14", "later"},
		[]string{"2", "BL", "20", "other"},
	)

	out, err := Aggregate(in, table.PPMIKeys)
	require.NoError(t, err)

	assert.Equal(t, 3, out.NumRows(), "one row per distinct key tuple")

	row := testutil.RowByKey(t, out, table.PPMIKeys, "1", "BL")
	assert.Equal(t, "10|12", table.Render(out.Cell("SCORE", row)), "group values combined in row order")
	assert.Equal(t, "first", table.Render(out.Cell("NOTE", row)), "empty group values contribute nothing")

	row = testutil.RowByKey(t, out, table.PPMIKeys, "1", "V01")
	assert.Equal(t, "14", table.Render(out.Cell("SCORE", row)), "singleton groups pass through unchanged")
}

func TestAggregateIdempotent(t *testing.T) {
	in := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "SCORE"},
		[]string{"1", "BL", "10"},
		[]string{"1", "BL", "12"},
		[]string{"1", "BL", "10"},
	)

	once, err := Aggregate(in, table.PPMIKeys)
	require.NoError(t, err)
	twice, err := Aggregate(once, table.PPMIKeys)
	require.NoError(t, err)

	assert.Equal(t, once.Columns(), twice.Columns())
	require.Equal(t, once.NumRows(), twice.NumRows())
	assert.Equal(t, "10|12", table.Render(twice.Cell("SCORE", 0)))
}

func TestAggregateRowCountInvariant(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want int
	}{
		{"no duplicates", [][]string{{"1", "BL", "a"}, {"2", "BL", "b"}}, 2},
		{"all one group", [][]string{{"1", "BL", "a"}, {"1", "BL", "b"}, {"1", "BL", "c"}}, 1},
		{"mixed", [][]string{{"1", "BL", "a"}, {"1", "V01", "b"}, {"1", "BL", "c"}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testutil.Grid(t, []string{"PATNO", "EVENT_ID", "VAL"}, tt.rows...)
			out, err := Aggregate(in, table.PPMIKeys)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.NumRows())
		})
	}
}

func TestAggregateByPrimaryKeyOnly(t *testing.T) {
	// Without the secondary key, grouping falls back to the primary key.
	in := testutil.Grid(t,
		[]string{"PATNO", "SEX"},
		[]string{"1", "M"},
		[]string{"1", "M"},
		[]string{"2", "F"},
	)

	out, err := Aggregate(in, table.PPMIKeys)
	require.NoError(t, err)

	assert.Equal(t, 2, out.NumRows())
	row := testutil.RowByKey(t, out, table.Keys{Primary: "PATNO"}, "1", "")
	assert.Equal(t, "M", table.Render(out.Cell("SEX", row)), "equal values never pipe-joined")
}

func TestAggregateWithoutKeysPassesThrough(t *testing.T) {
	in := testutil.Grid(t, []string{"SUBJECT", "VAL"}, []string{"1", "a"}, []string{"1", "b"})

	out, err := Aggregate(in, table.PPMIKeys)
	require.NoError(t, err)
	assert.Same(t, in, out)
}
