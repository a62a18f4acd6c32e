package clean

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkeene/cohort/internal/testutil"
)

func TestRecodeUncertain(t *testing.T) {
	in := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "FEATTREMOR", "FEATRIGID", "NOTES"},
		[]string{"1", "BL", "2", "1", "2"},
		[]string{"2", "BL", "0", "2", "stable"},
	)
	out, err := RecodeUncertain(in, []string{"FEATTREMOR", "FEATRIGID"}, DefaultUncertain)
	require.NoError(t, err)

	assert.Equal(t, []string{"0.5", "0"}, testutil.Cells(t, out, "FEATTREMOR"))
	assert.Equal(t, []string{"1", "0.5"}, testutil.Cells(t, out, "FEATRIGID"))
	// Columns outside the list keep their 2s.
	assert.Equal(t, []string{"2", "stable"}, testutil.Cells(t, out, "NOTES"))
}

func TestRecodeUncertainMissingColumn(t *testing.T) {
	in := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "FEATBRADY"},
		[]string{"1", "BL", "2"},
	)
	out, err := CleanFeaturesOfParkinsonism(in)
	require.NoError(t, err)

	// Only one of the four feature columns is present; the rest are
	// skipped without error.
	assert.Equal(t, []string{"0.5"}, testutil.Cells(t, out, "FEATBRADY"))
	assert.Equal(t, in.Columns(), out.Columns())
}

func TestRecodeUncertainCustomValue(t *testing.T) {
	in := testutil.Grid(t,
		[]string{"PATNO", "EVENT_ID", "ABNORM"},
		[]string{"1", "BL", "2"},
		[]string{"2", "BL", ""},
	)
	out, err := RecodeUncertain(in, []string{"ABNORM"}, decimal.New(1, 0))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", ""}, testutil.Cells(t, out, "ABNORM"))
}
