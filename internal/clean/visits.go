package clean

import (
	"github.com/shopspring/decimal"

	"github.com/pkeene/cohort/internal/table"
)

// VisitMonthsColumn is added by AddVisitMonths.
const VisitMonthsColumn = "VISIT_MONTHS"

// visitSchedule maps scheduled visit identifiers to months into the
// study. The screening visit can occur any time up to 3 months before
// baseline. Unscheduled visits have no entry.
var visitSchedule = map[string]int64{
	"SC": -3, "BL": 0,
	"V01": 3, "V02": 6, "R01": 6, "V03": 9, "V04": 12,
	"V05": 18, "R04": 18, "V06": 24, "R06": 30, "V07": 30,
	"V08": 36, "R08": 42, "V09": 42, "V10": 48, "R10": 54,
	"V11": 54, "V12": 60, "R12": 66, "V13": 72, "R13": 78,
	"V14": 84, "R14": 90, "V15": 96, "R15": 102, "V16": 108,
	"R16": 114, "V17": 120, "R17": 126, "V18": 132, "R18": 138,
	"V19": 144, "R19": 150, "V20": 156, "R20": 162, "V21": 168,
}

// VisitMonths converts a visit identifier into months since baseline.
// Unscheduled identifiers report ok=false.
func VisitMonths(eventID string) (months int64, ok bool) {
	months, ok = visitSchedule[eventID]
	return months, ok
}

// AddVisitMonths appends a months-since-baseline column derived from
// the secondary key. Unscheduled visits get a null cell.
func AddVisitMonths(t *table.Table, keys table.Keys) (*table.Table, error) {
	cells := make([]table.Value, t.NumRows())
	for row := range cells {
		id := table.Render(t.Cell(keys.Secondary, row))
		if months, ok := VisitMonths(id); ok {
			cells[row] = table.NewNumber(decimal.New(months, 0))
		} else {
			cells[row] = table.Null{}
		}
	}
	return t.WithColumn(table.Column{Name: VisitMonthsColumn, Cells: cells})
}
