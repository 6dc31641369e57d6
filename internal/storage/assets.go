package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jappleby064/pat-database/internal/common"
	"github.com/jappleby064/pat-database/internal/model"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const assetColumns = `id, reference, description, location, last_tested, status`

// CreateAsset adds a new identity to the asset registry. The asset's ID
// field is populated on success.
func (s *SQLiteStorage) CreateAsset(ctx context.Context, asset *model.Asset) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAsset(asset); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO assets (reference, description, location, last_tested, status)
		VALUES (?, ?, ?, ?, ?)
	`, asset.Reference, asset.Description, asset.Location, nullTime(asset.LastTested), string(asset.Status))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("asset %s: %w", asset.Reference, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create asset %s: %w", asset.Reference, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read asset id: %w", err)
	}
	asset.ID = id
	return nil
}

// GetAsset returns one asset by its database ID.
func (s *SQLiteStorage) GetAsset(ctx context.Context, id int64) (*model.Asset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+assetColumns+" FROM assets WHERE id = ?", id)
	return scanAsset(row, fmt.Sprintf("asset %d", id))
}

// GetAssetByReference returns one asset by its equipment identifier.
// The lookup is literal; identifier equivalence (leading zeros) belongs
// to the match package.
func (s *SQLiteStorage) GetAssetByReference(ctx context.Context, reference string) (*model.Asset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(reference, "reference"); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+assetColumns+" FROM assets WHERE reference = ?", reference)
	return scanAsset(row, fmt.Sprintf("asset %q", reference))
}

// GetAllAssets returns every registry asset in insertion order, the
// order the matcher walks candidates in.
func (s *SQLiteStorage) GetAllAssets(ctx context.Context) ([]model.Asset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+assetColumns+" FROM assets ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assets []model.Asset
	for rows.Next() {
		asset, scanErr := scanAssetRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// GetAssetTests returns the committed tests recorded against an asset.
func (s *SQLiteStorage) GetAssetTests(ctx context.Context, assetID int64) ([]model.AssetTest, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_id, test_date, result, inspector, class, visual,
			earth_continuity, insulation_resistance, touch_current, load,
			notes, substitute_leakage, fuse_rating, iec_bond, iec_insulation
		FROM asset_tests WHERE asset_id = ? ORDER BY test_date DESC
	`, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset tests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tests []model.AssetTest
	for rows.Next() {
		var t model.AssetTest
		var earth, insu, touch, load, sub, fuse, iecBond, iecInsu sql.NullFloat64
		if err := rows.Scan(
			&t.ID, &t.AssetID, &t.TestDate, &t.Result, &t.Inspector,
			&t.Class, &t.Visual, &earth, &insu, &touch, &load,
			&t.Notes, &sub, &fuse, &iecBond, &iecInsu,
		); err != nil {
			return nil, fmt.Errorf("failed to scan asset test: %w", err)
		}
		t.EarthContinuity = floatPtr(earth)
		t.InsulationRes = floatPtr(insu)
		t.TouchCurrent = floatPtr(touch)
		t.Load = floatPtr(load)
		t.SubLeakage = floatPtr(sub)
		t.FuseRating = floatPtr(fuse)
		t.IECBond = floatPtr(iecBond)
		t.IECInsu = floatPtr(iecInsu)
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// CommitAssetTests writes one reconciliation batch atomically: every
// test insert and every asset's cached last-tested/status update either
// all land or none do.
func (s *SQLiteStorage) CommitAssetTests(ctx context.Context, tests []model.AssetTest, assets []model.Asset) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(tests) == 0 {
		return fmt.Errorf("%w: tests", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO asset_tests (
			asset_id, test_date, result, inspector, class, visual,
			earth_continuity, insulation_resistance, touch_current, load,
			notes, substitute_leakage, fuse_rating, iec_bond, iec_insulation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range tests {
		t := &tests[i]
		if _, err := stmt.ExecContext(ctx,
			t.AssetID, t.TestDate, t.Result, t.Inspector, t.Class, t.Visual,
			nullFloat(t.EarthContinuity), nullFloat(t.InsulationRes),
			nullFloat(t.TouchCurrent), nullFloat(t.Load), t.Notes,
			nullFloat(t.SubLeakage), nullFloat(t.FuseRating),
			nullFloat(t.IECBond), nullFloat(t.IECInsu),
		); err != nil {
			return fmt.Errorf("failed to insert test for asset %d: %w", t.AssetID, err)
		}
	}

	for i := range assets {
		a := &assets[i]
		if _, err := tx.ExecContext(ctx,
			"UPDATE assets SET last_tested = ?, status = ? WHERE id = ?",
			nullTime(a.LastTested), string(a.Status), a.ID,
		); err != nil {
			return fmt.Errorf("failed to update asset %s: %w", a.Reference, err)
		}
	}

	return tx.Commit()
}

func scanAsset(row *sql.Row, what string) (*model.Asset, error) {
	asset, err := scanAssetRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func scanAssetRow(row scanner) (model.Asset, error) {
	var asset model.Asset
	var lastTested sql.NullTime
	var status sql.NullString

	err := row.Scan(&asset.ID, &asset.Reference, &asset.Description,
		&asset.Location, &lastTested, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return asset, err
		}
		return asset, fmt.Errorf("failed to scan asset: %w", err)
	}

	if lastTested.Valid {
		t := lastTested.Time
		asset.LastTested = &t
	}
	asset.Status = model.AssetStatus(status.String)
	return asset, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
