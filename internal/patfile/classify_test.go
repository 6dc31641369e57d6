package patfile

import (
	"testing"

	"github.com/jappleby064/pat-database/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	set := func(v string) field { return field{val: v, set: true} }

	tests := []struct {
		name     string
		row      rowFields
		expected model.ApplianceClass
	}{
		{
			name:     "no hints",
			row:      rowFields{},
			expected: model.ClassUnknown,
		},
		{
			name:     "class I with load",
			row:      rowFields{insuClass: set("I"), loadVA: set("250")},
			expected: model.ClassI,
		},
		{
			name:     "class I with load current only",
			row:      rowFields{insuClass: set("I"), loadCurrent: set("1.1")},
			expected: model.ClassI,
		},
		{
			name:     "class I IT without load",
			row:      rowFields{insuClass: set("I")},
			expected: model.ClassIIT,
		},
		{
			name:     "class II with substitute leakage",
			row:      rowFields{insuClass: set("II"), subLeakage: set("0.25")},
			expected: model.ClassII,
		},
		{
			name:     "class II with touch current",
			row:      rowFields{insuClass: set("II"), touchCurrent: set("0.1")},
			expected: model.ClassII,
		},
		{
			name:     "class II IT without leakage",
			row:      rowFields{insuClass: set("II")},
			expected: model.ClassIIIT,
		},
		{
			name:     "hint with whitespace",
			row:      rowFields{insuClass: set(" I ")},
			expected: model.ClassIIT,
		},
		{
			name:     "unknown hint",
			row:      rowFields{insuClass: set("III")},
			expected: model.ClassUnknown,
		},
		{
			name:     "iec fuse overrides hint",
			row:      rowFields{insuClass: set("I"), iecFuse: set("PASS")},
			expected: model.ClassIECLead,
		},
		{
			name:     "iec bond alone",
			row:      rowFields{iecBond: set("0.05")},
			expected: model.ClassIECLead,
		},
		{
			name:     "iec insulation alone",
			row:      rowFields{iecInsu: set("299")},
			expected: model.ClassIECLead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := tt.row
			assert.Equal(t, tt.expected, classify(&row))
			// Same input, same label.
			assert.Equal(t, tt.expected, classify(&row))
		})
	}
}
