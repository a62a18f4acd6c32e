package clean

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pkeene/cohort/internal/table"
)

// Concomitant-medication indication columns.
const (
	IndicationCode = "CMINDC"
	IndicationText = "CMINDC_TEXT"
	TreatmentName  = "CMTRT"
)

// OtherIndication is the fallback code for entries that map nowhere.
const OtherIndication = 25

// indications is the coded indication vocabulary for concomitant
// medications.
var indications = map[int64]string{
	1:  "Anxiety",
	2:  "Atrial Fibrillation / Arrhythmias",
	3:  "Benign Prostatic Hypertrophy / Overactive Bladder",
	4:  "Cognitive Dysfunction",
	5:  "Congestive Heart Failure",
	6:  "Constipation",
	7:  "Coronary Artery Disease, Peripheral Artery Disease, Stroke",
	8:  "Daytime Sleepiness",
	9:  "Delusions, Hallucination, Psychosis",
	10: "Depression",
	11: "Diabetes",
	12: "GERD",
	13: "Hyperlipidemia",
	14: "Hypertension",
	15: "Insomnia",
	16: "Nausea",
	17: "Pain",
	18: "REM-Behavior Disorder",
	19: "Restless Leg Syndrome",
	20: "Sexual Dysfunction",
	21: "Sialorrhea / Drooling",
	22: "Supplements / Homeopathic Medication",
	23: "Thyroid Disorder",
	24: "Vitamins / Coenzymes",
	25: "Other",
}

// treatmentFallbacks covers the handful of entries with neither a code
// nor free text; the treatment name itself identifies the indication.
var treatmentFallbacks = map[string]int64{
	"ASPIRIN":     17, // Pain
	"GINKOBIL":    22, // Supplements
	"HUMULIN NPH": 11, // Diabetes
}

// MapIndications fills the indication code for every row and rewrites
// the indication text from the coded vocabulary, so downstream
// analysis sees a completely coded column.
//
// Per row: an existing code wins; otherwise the free text is matched
// against the vocabulary; otherwise the treatment name fallbacks are
// consulted; anything left maps to Other.
func MapIndications(t *table.Table) (*table.Table, error) {
	codes := make([]table.Value, t.NumRows())
	texts := make([]table.Value, t.NumRows())
	for row := range codes {
		code := indicationFor(t, row)
		codes[row] = table.NewNumber(decimal.New(code, 0))
		texts[row] = table.Text(indications[code])
	}

	out, err := replaceOrAppend(t, IndicationCode, codes)
	if err != nil {
		return nil, err
	}
	return replaceOrAppend(out, IndicationText, texts)
}

func indicationFor(t *table.Table, row int) int64 {
	if n, ok := t.Cell(IndicationCode, row).(table.Number); ok {
		code := n.Dec.IntPart()
		if _, known := indications[code]; known {
			return code
		}
	}

	text := strings.ToLower(strings.TrimSpace(table.Render(t.Cell(IndicationText, row))))
	if text != "" {
		// Lowest matching code wins so repeated runs agree.
		for code := int64(1); code <= int64(len(indications)); code++ {
			if code == OtherIndication {
				continue
			}
			label := strings.ToLower(indications[code])
			if strings.Contains(label, text) || strings.Contains(text, label) {
				return code
			}
		}
	}

	treatment := strings.ToUpper(strings.TrimSpace(table.Render(t.Cell(TreatmentName, row))))
	if code, ok := treatmentFallbacks[treatment]; ok {
		return code
	}
	return OtherIndication
}

func replaceOrAppend(t *table.Table, name string, cells []table.Value) (*table.Table, error) {
	if t.HasColumn(name) {
		return replaceColumn(t, name, cells)
	}
	return t.WithColumn(table.Column{Name: name, Cells: cells})
}
