package clean

import (
	"github.com/shopspring/decimal"

	"github.com/pkeene/cohort/internal/table"
)

// ParkinsonismFeatureColumns are the yes/no/uncertain feature ratings
// in the Features_of_Parkinsonism table.
var ParkinsonismFeatureColumns = []string{"FEATBRADY", "FEATPOSINS", "FEATRIGID", "FEATTREMOR"}

var uncertainCode = decimal.New(2, 0)

// DefaultUncertain is the analysis-friendly replacement for the
// "uncertain" rating: halfway between no (0) and yes (1).
var DefaultUncertain = decimal.RequireFromString("0.5")

// RecodeUncertain replaces the rating 2 ("uncertain" / "cannot
// assess") with the given value in each named column. Columns the
// table does not carry are ignored; non-numeric cells pass through.
func RecodeUncertain(t *table.Table, columns []string, uncertain decimal.Decimal) (*table.Table, error) {
	out := t
	for _, name := range columns {
		col, ok := t.Column(name)
		if !ok {
			continue
		}
		cells := make([]table.Value, len(col.Cells))
		for row, v := range col.Cells {
			if n, isNum := v.(table.Number); isNum && n.Dec.Equal(uncertainCode) {
				cells[row] = table.NewNumber(uncertain)
				continue
			}
			cells[row] = v
		}
		replaced, err := replaceColumn(out, name, cells)
		if err != nil {
			return nil, err
		}
		out = replaced
	}
	return out, nil
}

// CleanFeaturesOfParkinsonism recodes the uncertain rating across the
// four cardinal feature columns.
func CleanFeaturesOfParkinsonism(t *table.Table) (*table.Table, error) {
	return RecodeUncertain(t, ParkinsonismFeatureColumns, DefaultUncertain)
}

// CleanGeneralPhysicalExam recodes the "cannot assess" abnormality
// rating.
func CleanGeneralPhysicalExam(t *table.Table) (*table.Table, error) {
	return RecodeUncertain(t, []string{"ABNORM"}, DefaultUncertain)
}

// replaceColumn rebuilds a table with one column's cells swapped out.
func replaceColumn(t *table.Table, name string, cells []table.Value) (*table.Table, error) {
	cols := make([]table.Column, 0, t.NumCols())
	for _, existing := range t.Columns() {
		if existing == name {
			cols = append(cols, table.Column{Name: name, Cells: cells})
			continue
		}
		c, _ := t.Column(existing)
		cols = append(cols, c)
	}
	return table.New(cols...)
}
