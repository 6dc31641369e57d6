// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"
)

// ApplianceClass is the inferred equipment class of a test record.
type ApplianceClass string

// Appliance class constants. ClassUnknown means no class could be inferred.
const (
	ClassUnknown ApplianceClass = ""
	ClassI       ApplianceClass = "I"
	ClassIIT     ApplianceClass = "I(IT)"
	ClassII      ApplianceClass = "II"
	ClassIIIT    ApplianceClass = "II(IT)"
	ClassIECLead ApplianceClass = "IEC Lead"
)

// Valid reports whether c is one of the known appliance classes.
// ClassUnknown is not considered valid.
func (c ApplianceClass) Valid() bool {
	switch c {
	case ClassI, ClassIIT, ClassII, ClassIIIT, ClassIECLead:
		return true
	default:
		return false
	}
}

// Test result constants used for visual checks and the overall outcome.
const (
	ResultPass = "PASS"
	ResultFail = "FAIL"
)

// TestRecord represents a single appliance test imported from a tester
// export file. Measurement fields keep the textual form reported by the
// instrument (e.g. ">299") so inequality-bounded readings survive a
// round trip through storage.
type TestRecord struct {
	TestDate     time.Time
	AssetID      string // Equipment identifier, zero-padded when numeric
	Site         string
	User         string
	TestType     string // Tester mode, e.g. AUTO or DIAG
	Class        ApplianceClass
	Visual       string
	Bond         string
	Insulation   string
	SubLeakage   string
	TouchCurrent string
	EarthLeakage string
	LoadVA       string
	LoadCurrent  string
	IECFuse      string
	IECBond      string
	IECInsu      string
	RCDTrip      string
	Note         string
	ID           int64
	BatchID      BatchID
	DateInferred bool // Set when the test date could not be parsed
}

// OverallResult derives the record's pass/fail outcome. A record fails
// when the visual check or the IEC fuse check failed; every other
// combination passes.
func (r *TestRecord) OverallResult() string {
	if r.Visual == ResultFail || r.IECFuse == ResultFail {
		return ResultFail
	}
	return ResultPass
}

// BatchID identifies one import invocation. Every record produced by a
// single import shares the same batch, which makes "most recent import"
// queries cheap.
type BatchID int64

// NewBatchID derives a batch identifier from an import's start time.
func NewBatchID(start time.Time) BatchID {
	return BatchID(start.UnixMilli())
}

// PadAssetID re-pads an all-digit equipment identifier to four digits
// with leading zeros, matching how testers display short IDs. Non-numeric
// identifiers are returned verbatim.
func PadAssetID(id string) string {
	if id == "" {
		return id
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return id
		}
	}
	if len(id) >= 4 {
		return id
	}
	return strings.Repeat("0", 4-len(id)) + id
}

// UsableAssetID reports whether an equipment identifier can anchor a
// record: non-empty and containing at least one letter or digit.
func UsableAssetID(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	for _, r := range id {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
