package match

import (
	"testing"
	"time"

	"github.com/jappleby064/pat-database/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAssetEquivalentIdentifiers(t *testing.T) {
	candidates := []model.Asset{
		{ID: 1, Reference: "7"},
	}

	// "0007", "7" and "07" are all equivalent to a stored "7".
	for _, ref := range []string{"0007", "7", "07"} {
		found := FindAsset(ref, candidates)
		require.NotNil(t, found, "reference %q", ref)
		assert.Equal(t, int64(1), found.ID)
	}
}

func TestFindAssetZeroPaddedCandidate(t *testing.T) {
	candidates := []model.Asset{
		{ID: 1, Reference: "0007"},
	}

	found := FindAsset("7", candidates)
	require.NotNil(t, found)
	assert.Equal(t, int64(1), found.ID)
}

func TestFindAssetNoMatch(t *testing.T) {
	candidates := []model.Asset{
		{ID: 1, Reference: "15"},
		{ID: 2, Reference: "0007"},
	}

	assert.Nil(t, FindAsset("0099", candidates))
}

func TestFindAssetFirstMatchWins(t *testing.T) {
	candidates := []model.Asset{
		{ID: 1, Reference: "007"},
		{ID: 2, Reference: "7"},
	}

	// Both candidates are equivalent; list order decides.
	found := FindAsset("0007", candidates)
	require.NotNil(t, found)
	assert.Equal(t, int64(1), found.ID)
}

func TestFindAssetVerbatimNonNumeric(t *testing.T) {
	candidates := []model.Asset{
		{ID: 1, Reference: "KET-7"},
	}

	found := FindAsset("KET-7", candidates)
	require.NotNil(t, found)
	assert.Nil(t, FindAsset("KET-8", candidates))
}

func TestStripLeadingZeros(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "0007", expected: "7"},
		{input: "7", expected: "7"},
		{input: "0", expected: "0"},
		{input: "000", expected: "0"},
		{input: "", expected: "0"},
		{input: "0a", expected: "a"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StripLeadingZeros(tt.input), "input %q", tt.input)
	}
}

func TestIsDuplicateSameCalendarDay(t *testing.T) {
	morning := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)
	nextDay := time.Date(2024, 3, 6, 0, 30, 0, 0, time.UTC)

	existing := []model.AssetTest{{TestDate: morning}}

	rec := model.TestRecord{TestDate: evening}
	assert.True(t, IsDuplicate(&rec, existing))

	// Symmetric: evaluating the pair the other way round agrees.
	existingFlipped := []model.AssetTest{{TestDate: evening}}
	recFlipped := model.TestRecord{TestDate: morning}
	assert.True(t, IsDuplicate(&recFlipped, existingFlipped))

	recNext := model.TestRecord{TestDate: nextDay}
	assert.False(t, IsDuplicate(&recNext, existing))

	assert.False(t, IsDuplicate(&rec, nil))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC)
	c := time.Date(2023, 3, 5, 8, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, c)) // same day-of-month, different year
}
