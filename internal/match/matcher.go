// Package match maps imported test records onto asset registry
// identities and flags same-day duplicates. Everything here is pure:
// callers supply the candidate list and existing tests in memory.
package match

import (
	"strings"
	"time"

	"github.com/jappleby064/pat-database/internal/model"
)

// FindAsset returns the first candidate, in list order, whose identifier
// is equivalent to reference: equal verbatim, equal to the zero-stripped
// reference, or equal after stripping its own leading zeros. Returns nil
// when nothing qualifies. The result is a suggestion only; a human
// confirms or overrides before anything is committed.
func FindAsset(reference string, candidates []model.Asset) *model.Asset {
	stripped := StripLeadingZeros(reference)
	for i := range candidates {
		c := &candidates[i]
		if c.Reference == reference || c.Reference == stripped || StripLeadingZeros(c.Reference) == stripped {
			return c
		}
	}
	return nil
}

// StripLeadingZeros removes leading zeros from an identifier. An
// all-zero identifier collapses to "0" rather than the empty string.
func StripLeadingZeros(id string) string {
	t := strings.TrimLeft(id, "0")
	if t == "" {
		return "0"
	}
	return t
}

// IsDuplicate reports whether any existing test for the asset falls on
// the same calendar day as the record's test date. Time of day is
// ignored, so a morning and an evening test of the same appliance count
// as one.
func IsDuplicate(record *model.TestRecord, existing []model.AssetTest) bool {
	for i := range existing {
		if SameDay(existing[i].TestDate, record.TestDate) {
			return true
		}
	}
	return false
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
