package clean

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pkeene/cohort/internal/table"
)

// LEDD medication columns.
const (
	LEDDColumn       = "LEDD"
	LEDDTreatment    = "LEDTRT"
	LEDDStrengthMG   = "LEDDSTRMG"
	LEDDDose         = "LEDDOSE"
	LEDDFrequency    = "LEDDOSFRQ"
	LEDDDoseStrength = "LEDDOSSTR"
)

// nonLEDDNames are anticholinergics and similar drugs that sometimes
// slip into the LEDD log but carry no levodopa-equivalent dose.
var nonLEDDNames = []string{
	"benztropine", "cogentin", "biperden", "akineton", "budipin", "parkinsan",
}

// CleanLEDDMeds drops non-LEDD entries and fills missing LEDD values
// with the levodopa-equivalent daily dose derived from the treatment
// name and dose fields. Entries no rule covers keep a null LEDD.
func CleanLEDDMeds(t *table.Table) (*table.Table, error) {
	// Row filter first: excluded drugs contribute nothing downstream.
	keep := make([]int, 0, t.NumRows())
	for row := 0; row < t.NumRows(); row++ {
		name := strings.ToLower(table.Render(t.Cell(LEDDTreatment, row)))
		excluded := false
		for _, bad := range nonLEDDNames {
			if strings.Contains(name, bad) {
				excluded = true
				break
			}
		}
		if !excluded {
			keep = append(keep, row)
		}
	}

	cols := make([]table.Column, 0, t.NumCols())
	for _, name := range t.Columns() {
		c, _ := t.Column(name)
		cells := make([]table.Value, len(keep))
		for i, row := range keep {
			cells[i] = c.Cells[row]
		}
		cols = append(cols, table.Column{Name: name, Cells: cells})
	}
	filtered, err := table.New(cols...)
	if err != nil {
		return nil, err
	}

	ledd := make([]table.Value, filtered.NumRows())
	for row := range ledd {
		if existing := filtered.Cell(LEDDColumn, row); !table.IsEmpty(existing) {
			ledd[row] = existing
			continue
		}
		ledd[row] = equivalentDose(filtered, row)
	}
	return replaceOrAppend(filtered, LEDDColumn, ledd)
}

// doseValue is strength * dose * frequency, when all three are numeric.
func doseValue(t *table.Table, row int) (decimal.Decimal, bool) {
	strength, okS := asDecimal(t.Cell(LEDDStrengthMG, row))
	dose, okD := asDecimal(t.Cell(LEDDDose, row))
	freq, okF := asDecimal(t.Cell(LEDDFrequency, row))
	if !okS || !okD || !okF {
		return decimal.Decimal{}, false
	}
	return strength.Mul(dose).Mul(freq), true
}

// equivalentDose implements the levodopa-equivalent conversion rules.
// Order matters: combination products and complex names are tested
// before the generic substrings they contain.
func equivalentDose(t *table.Table, row int) table.Value {
	name := strings.ToLower(table.Render(t.Cell(LEDDTreatment, row)))
	doseStr := strings.ToLower(table.Render(t.Cell(LEDDDoseStrength, row)))

	fixed := func(mg int64) table.Value {
		return table.NewNumber(decimal.New(mg, 0))
	}
	scaled := func(factor string) table.Value {
		dv, ok := doseValue(t, row)
		if !ok {
			return table.Null{}
		}
		return table.NewNumber(dv.Mul(decimal.RequireFromString(factor)))
	}
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}

	switch {
	// Fixed amounts.
	case has("safinamide", "xadago"):
		return fixed(150)
	case has("zonisamide", "trihex"): // many trihexyphenidyl misspellings
		return fixed(100)

	// Combination products and complex names.
	case has("infusion", "duopa"):
		return scaled("1.1")
	case has("inhal", "inbrija"):
		return scaled("0.69")
	case has("madopar", "benseraz"):
		return scaled("0.85")

	// COMT inhibitors express as a levodopa multiplier.
	case has("istradefylline", "nourianz"):
		return table.Text("LD x 0.2")
	case has("tolcapone", "opicapone"):
		return table.Text("LD x 0.5")
	case has("entacapone"):
		return table.Text("LD x 0.33")

	// Dopamine agonists and MAO-B inhibitors.
	case has("prami", "rasa", "azil"):
		return scaled("100")
	case has("ropini", "requip"):
		return scaled("20")
	case has("rotigo", "neupro"):
		return scaled("30.3")
	case has("piri"):
		return scaled("1")
	case has("apomorph") && has("pen"),
		has("seleg") && strings.Contains(doseStr, "po"):
		return scaled("10")
	case has("apomorph") && has("film"), has("kynmobi"):
		return scaled("1.5")
	case has("seleg") && strings.Contains(doseStr, "subling"):
		return scaled("80")

	// Amantadine: extended-release brands before the generic name.
	case has("osmolex"):
		return scaled("1")
	case has("gocovri"), has("amantad") && has(" cr"):
		return scaled("1.25")
	case has("amantad"):
		return scaled("1")

	// Levodopa formulations.
	case has("rytary"),
		has("levodopa") && has("extended", " er", "prolonged"):
		return scaled("0.5")
	case has("levodopa") && has("control", " cr"),
		has("sinemet") && has("retard"):
		return scaled("0.75")
	case has("carbidopa/levodopa"):
		return scaled("1")
	}
	return table.Null{}
}
