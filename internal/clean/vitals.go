// Package clean holds the domain value transforms applied around the
// consolidation engine. Every transform returns a new table; the inputs
// are never modified, so cleaning composes freely with merge steps.
package clean

import (
	"github.com/shopspring/decimal"

	"github.com/pkeene/cohort/internal/table"
)

// Blood-pressure band columns added by CleanVitalSigns.
const (
	SupineBPCode    = "SUP_BP_CODE"
	SupineBPLabel   = "SUP_BP_LABEL"
	StandingBPCode  = "STND_BP_CODE"
	StandingBPLabel = "STND_BP_LABEL"
)

var (
	bp80  = decimal.New(80, 0)
	bp90  = decimal.New(90, 0)
	bp120 = decimal.New(120, 0)
	bp130 = decimal.New(130, 0)
	bp140 = decimal.New(140, 0)
	bp180 = decimal.New(180, 0)
)

// bpBand converts a systolic/diastolic reading into an American Heart
// Association band.
//
// https://www.heart.org/en/health-topics/high-blood-pressure/understanding-blood-pressure-readings
func bpBand(systolic, diastolic decimal.Decimal) (int, string) {
	switch {
	case systolic.LessThan(bp120) && diastolic.LessThan(bp80):
		return 0, "Normal"
	case systolic.LessThan(bp130) && diastolic.LessThan(bp80):
		return 1, "Elevated"
	case systolic.LessThan(bp140) || diastolic.LessThan(bp90):
		return 2, "Stage 1 HTN"
	case systolic.GreaterThanOrEqual(bp180) || diastolic.GreaterThanOrEqual(decimal.New(120, 0)):
		return 4, "Hypertensive crisis"
	default:
		return 3, "Stage 2 HTN" // between stage 1 and crisis
	}
}

// CleanVitalSigns adds coded and labelled blood-pressure band columns
// for the supine (SYSSUP/DIASUP) and standing (SYSSTND/DIASTND)
// readings. Rows whose readings are missing or non-numeric get null
// band cells; a reading position absent from the table entirely gets
// no band columns.
func CleanVitalSigns(t *table.Table) (*table.Table, error) {
	out := t
	var err error
	for _, band := range []struct {
		sys, dia, code, label string
	}{
		{"SYSSUP", "DIASUP", SupineBPCode, SupineBPLabel},
		{"SYSSTND", "DIASTND", StandingBPCode, StandingBPLabel},
	} {
		if !t.HasColumn(band.sys) && !t.HasColumn(band.dia) {
			continue
		}
		codes := make([]table.Value, t.NumRows())
		labels := make([]table.Value, t.NumRows())
		for row := range codes {
			sys, okSys := asDecimal(t.Cell(band.sys, row))
			dia, okDia := asDecimal(t.Cell(band.dia, row))
			if !okSys || !okDia {
				codes[row], labels[row] = table.Null{}, table.Null{}
				continue
			}
			code, label := bpBand(sys, dia)
			codes[row] = table.NewNumber(decimal.New(int64(code), 0))
			labels[row] = table.Text(label)
		}
		if out, err = out.WithColumn(table.Column{Name: band.code, Cells: codes}); err != nil {
			return nil, err
		}
		if out, err = out.WithColumn(table.Column{Name: band.label, Cells: labels}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func asDecimal(v table.Value) (decimal.Decimal, bool) {
	n, ok := v.(table.Number)
	if !ok {
		return decimal.Decimal{}, false
	}
	return n.Dec, true
}
