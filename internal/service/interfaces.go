// Package service defines the interfaces between the application's
// layers. Import, matching, and reconciliation depend on these rather
// than on the SQLite implementation.
package service

import (
	"context"

	"github.com/jappleby064/pat-database/internal/model"
)

// RecordFilter defines filtering options for test record queries.
type RecordFilter struct {
	BatchID    *model.BatchID
	FailedOnly bool
	Limit      int
}

// Storage is the contract for the persistence layer: imported test
// records on one side, the asset registry (assets plus their committed
// tests) on the other.
type Storage interface {
	// Test record operations
	SaveTestRecords(ctx context.Context, records []model.TestRecord) error
	GetTestRecords(ctx context.Context, filter RecordFilter) ([]model.TestRecord, error)
	GetTestRecordByID(ctx context.Context, id int64) (*model.TestRecord, error)
	GetLatestBatch(ctx context.Context) (model.BatchID, error)

	// Asset registry operations
	CreateAsset(ctx context.Context, asset *model.Asset) error
	GetAsset(ctx context.Context, id int64) (*model.Asset, error)
	GetAssetByReference(ctx context.Context, reference string) (*model.Asset, error)
	GetAllAssets(ctx context.Context) ([]model.Asset, error)

	// Committed test operations
	GetAssetTests(ctx context.Context, assetID int64) ([]model.AssetTest, error)
	CommitAssetTests(ctx context.Context, tests []model.AssetTest, assets []model.Asset) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
