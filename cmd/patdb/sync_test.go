package main

import (
	"context"
	"testing"
	"time"

	"github.com/jappleby064/pat-database/internal/common"
	"github.com/jappleby064/pat-database/internal/model"
	"github.com/jappleby064/pat-database/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSyncPairs(t *testing.T) {
	date := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	kettle := model.Asset{ID: 1, Reference: "0007"}
	drill := model.Asset{ID: 2, Reference: "0012"}

	candidates := []model.MatchCandidate{
		{Record: model.TestRecord{ID: 1, AssetID: "0007", TestDate: date}, Asset: &kettle},
		{Record: model.TestRecord{ID: 2, AssetID: "0012", TestDate: date}, Asset: &drill, Duplicate: true},
		{Record: model.TestRecord{ID: 3, AssetID: "0099", TestDate: date}},
	}

	pairs, unmatched, duplicates, err := buildSyncPairs(candidates, nil)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, int64(1), pairs[0].Record.ID)
	assert.Equal(t, "0007", pairs[0].Asset.Reference)
	assert.Equal(t, 1, unmatched)
	assert.Equal(t, 1, duplicates)
}

func TestBuildSyncPairsSelection(t *testing.T) {
	date := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	kettle := model.Asset{ID: 1, Reference: "0007"}

	candidates := []model.MatchCandidate{
		{Record: model.TestRecord{ID: 1, AssetID: "0007", TestDate: date}, Asset: &kettle},
		{Record: model.TestRecord{ID: 2, AssetID: "0099", TestDate: date}},
	}

	// Selecting only the unmatched record leaves nothing committable.
	_, unmatched, _, err := buildSyncPairs(candidates, map[int64]bool{2: true})
	assert.ErrorIs(t, err, common.ErrNothingToSync)
	assert.Equal(t, 1, unmatched)

	pairs, unmatched, _, err := buildSyncPairs(candidates, map[int64]bool{1: true})
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
	assert.Zero(t, unmatched)
}

func TestBuildSyncPairsAllDuplicates(t *testing.T) {
	date := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	kettle := model.Asset{ID: 1, Reference: "0007"}

	candidates := []model.MatchCandidate{
		{Record: model.TestRecord{ID: 1, AssetID: "0007", TestDate: date}, Asset: &kettle, Duplicate: true},
	}

	_, _, duplicates, err := buildSyncPairs(candidates, nil)
	assert.ErrorIs(t, err, common.ErrNothingToSync)
	assert.Equal(t, 1, duplicates)
}

func TestMatchBatchEmptyBatch(t *testing.T) {
	store := testutil.SetupTestDB(t)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	_, err := matchBatch(cmd, store, 42)
	assert.ErrorIs(t, err, common.ErrNoRecords)
}
