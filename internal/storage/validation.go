package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jappleby064/pat-database/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrEmptySlice    = errors.New("slice cannot be empty")
	ErrInvalidRecord = errors.New("invalid test record")
	ErrInvalidAsset  = errors.New("invalid asset")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecords validates a slice of test records.
func validateRecords(records []model.TestRecord) error {
	if records == nil {
		return fmt.Errorf("%w: records", ErrNilParameter)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: records", ErrEmptySlice)
	}

	for i := range records {
		if err := validateRecord(&records[i]); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
	}
	return nil
}

// validateRecord validates a single test record.
func validateRecord(rec *model.TestRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if !model.UsableAssetID(rec.AssetID) {
		return fmt.Errorf("%w: unusable asset identifier %q", ErrInvalidRecord, rec.AssetID)
	}
	if rec.TestDate.IsZero() {
		return fmt.Errorf("%w: missing test date", ErrInvalidRecord)
	}
	if rec.BatchID == 0 {
		return fmt.Errorf("%w: missing batch identifier", ErrInvalidRecord)
	}
	return nil
}

// validateAsset validates a registry asset.
func validateAsset(asset *model.Asset) error {
	if asset == nil {
		return fmt.Errorf("%w: asset", ErrNilParameter)
	}
	if strings.TrimSpace(asset.Reference) == "" {
		return fmt.Errorf("%w: missing reference", ErrInvalidAsset)
	}
	return nil
}
