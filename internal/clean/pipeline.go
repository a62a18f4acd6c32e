package clean

import (
	"github.com/pkeene/cohort/internal/table"
)

// Apply runs every transform whose trigger columns the table carries.
// Tables without any recognized columns pass through untouched, so the
// pipeline is safe to run on every loaded table.
func Apply(t *table.Table) (*table.Table, error) {
	out := t
	var err error

	if out.HasColumn("SYSSUP") || out.HasColumn("SYSSTND") {
		if out, err = CleanVitalSigns(out); err != nil {
			return nil, err
		}
	}
	if out, err = CleanFeaturesOfParkinsonism(out); err != nil {
		return nil, err
	}
	if out, err = CleanGeneralPhysicalExam(out); err != nil {
		return nil, err
	}
	if out.HasColumn(TreatmentName) {
		if out, err = MapIndications(out); err != nil {
			return nil, err
		}
	}
	if out.HasColumn(LEDDTreatment) {
		if out, err = CleanLEDDMeds(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
