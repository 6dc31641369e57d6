package patfile

import (
	"strings"

	"github.com/jappleby064/pat-database/internal/model"
)

// classify derives the appliance class for a parsed row. Any IEC field
// marks the record as a detachable lead test, which overrides the class
// hint. Otherwise the hint from the insulation or substitute-leakage
// parameter decides between Class I/II, with the (IT) variants chosen
// when the measurements an IT appliance cannot produce are absent.
func classify(row *rowFields) model.ApplianceClass {
	if row.iecBond.set || row.iecInsu.set || row.iecFuse.set {
		return model.ClassIECLead
	}

	switch strings.TrimSpace(row.insuClass.val) {
	case "I":
		if row.loadVA.val == "" && row.loadCurrent.val == "" {
			return model.ClassIIT
		}
		return model.ClassI
	case "II":
		if row.subLeakage.val == "" && row.earthLeakage.val == "" && row.touchCurrent.val == "" {
			return model.ClassIIIT
		}
		return model.ClassII
	}

	return model.ClassUnknown
}
