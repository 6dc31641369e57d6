package model

import "time"

// AssetStatus tracks the last known condition of a registry asset.
type AssetStatus string

const (
	// StatusGood indicates the asset passed its most recent test.
	StatusGood AssetStatus = "Good"
	// StatusFailed indicates the asset failed its most recent test.
	StatusFailed AssetStatus = "Failed"
)

// Asset is an identity in the asset registry. The registry owns these
// rows; import and reconciliation only read them, except for the cached
// last-tested date and status updated when a test is committed.
type Asset struct {
	LastTested  *time.Time
	Reference   string // Equipment identifier as entered in the registry
	Description string
	Location    string
	Status      AssetStatus
	ID          int64
}

// AssetTest is a committed test in the registry's schema. Numeric
// measurements are converted from the record's textual readings; nil
// means the source record had no usable value for that field.
type AssetTest struct {
	TestDate        time.Time
	Result          string
	Inspector       string
	Class           string
	Visual          string
	Notes           string
	EarthContinuity *float64
	InsulationRes   *float64
	TouchCurrent    *float64
	Load            *float64 // kVA
	SubLeakage      *float64
	FuseRating      *float64
	IECBond         *float64
	IECInsu         *float64
	AssetID         int64
	ID              int64
}
