package registry

import (
	"context"
	"testing"
	"time"

	"github.com/jappleby064/pat-database/internal/model"
	"github.com/jappleby064/pat-database/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncAgainstRealStore(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	kettle := testutil.SeedAsset(t, store, "7", "Kettle")
	drill := testutil.SeedAsset(t, store, "0015", "Drill")

	// The drill was already tested on the 5th.
	testutil.SeedAssetTest(t, store, drill,
		time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC), model.ResultPass)

	pairs := []Pair{
		{
			Record: model.TestRecord{
				TestDate: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
				AssetID:  "0007",
				User:     "J Appleby",
				Class:    model.ClassI,
				Visual:   "PASS",
				Bond:     "0.09",
			},
			Asset: kettle,
		},
		{
			// Same calendar day as the seeded drill test, later time.
			Record: model.TestRecord{
				TestDate: time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC),
				AssetID:  "0015",
				Visual:   "PASS",
			},
			Asset: drill,
		},
	}

	outcome := NewCommitter(store).Sync(ctx, pairs)

	assert.Equal(t, 1, outcome.Synced)
	assert.Equal(t, 1, outcome.Skipped)
	assert.True(t, outcome.OK())

	kettleTests, err := store.GetAssetTests(ctx, kettle.ID)
	require.NoError(t, err)
	require.Len(t, kettleTests, 1)
	assert.Equal(t, "I", kettleTests[0].Class)

	drillTests, err := store.GetAssetTests(ctx, drill.ID)
	require.NoError(t, err)
	assert.Len(t, drillTests, 1, "duplicate was not committed")

	reloaded, err := store.GetAsset(ctx, kettle.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastTested)
	assert.Equal(t, model.StatusGood, reloaded.Status)
}
