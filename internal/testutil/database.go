// Package testutil provides shared helpers for tests that need a real
// storage layer.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jappleby064/pat-database/internal/model"
	"github.com/jappleby064/pat-database/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite store and registers
// cleanup with the test.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedAsset inserts a registry asset and returns it with its ID set.
func SeedAsset(t *testing.T, store *storage.SQLiteStorage, reference, description string) model.Asset {
	t.Helper()

	asset := model.Asset{
		Reference:   reference,
		Description: description,
	}
	if err := store.CreateAsset(context.Background(), &asset); err != nil {
		t.Fatalf("failed to seed asset %q: %v", reference, err)
	}
	return asset
}

// SeedAssetTest commits one test against an asset dated at the given
// instant, bypassing the reconciliation pipeline.
func SeedAssetTest(t *testing.T, store *storage.SQLiteStorage, asset model.Asset, date time.Time, result string) {
	t.Helper()

	test := model.AssetTest{
		AssetID:  asset.ID,
		TestDate: date,
		Result:   result,
		Class:    "N/A",
		Visual:   "N/A",
	}
	if err := store.CommitAssetTests(context.Background(), []model.AssetTest{test}, nil); err != nil {
		t.Fatalf("failed to seed asset test: %v", err)
	}
}
