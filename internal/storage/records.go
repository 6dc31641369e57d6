package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jappleby064/pat-database/internal/common"
	"github.com/jappleby064/pat-database/internal/model"
	"github.com/jappleby064/pat-database/internal/service"
)

const recordColumns = `id, asset_id, site, user, test_date, test_type, class, visual,
	bond, insulation, sub_leakage, touch_current, earth_leakage,
	load_va, load_current, iec_fuse, iec_bond, iec_insu, rcd_trip,
	note, batch_id, date_inferred`

// SaveTestRecords saves one import batch of records atomically.
func (s *SQLiteStorage) SaveTestRecords(ctx context.Context, records []model.TestRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO test_records (
			asset_id, site, user, test_date, test_type, class, visual,
			bond, insulation, sub_leakage, touch_current, earth_leakage,
			load_va, load_current, iec_fuse, iec_bond, iec_insu, rcd_trip,
			note, batch_id, date_inferred
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range records {
		rec := &records[i]
		if _, err := stmt.ExecContext(ctx,
			rec.AssetID, rec.Site, rec.User, rec.TestDate, rec.TestType,
			string(rec.Class), rec.Visual, rec.Bond, rec.Insulation,
			rec.SubLeakage, rec.TouchCurrent, rec.EarthLeakage,
			rec.LoadVA, rec.LoadCurrent, rec.IECFuse, rec.IECBond,
			rec.IECInsu, rec.RCDTrip, rec.Note, int64(rec.BatchID),
			rec.DateInferred,
		); err != nil {
			return fmt.Errorf("failed to insert record for asset %s: %w", rec.AssetID, err)
		}
	}

	return tx.Commit()
}

// GetTestRecords returns records matching the filter, newest batch
// first, then insertion order within a batch.
func (s *SQLiteStorage) GetTestRecords(ctx context.Context, filter service.RecordFilter) ([]model.TestRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := "SELECT " + recordColumns + " FROM test_records"
	var args []any
	var where []string

	if filter.BatchID != nil {
		where = append(where, "batch_id = ?")
		args = append(args, int64(*filter.BatchID))
	}
	if filter.FailedOnly {
		where = append(where, "(visual = ? OR iec_fuse = ?)")
		args = append(args, model.ResultFail, model.ResultFail)
	}
	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY batch_id DESC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.TestRecord
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetTestRecordByID returns a single record.
func (s *SQLiteStorage) GetTestRecordByID(ctx context.Context, id int64) (*model.TestRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM test_records WHERE id = ?", id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("test record %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetLatestBatch returns the batch identifier of the most recent import.
func (s *SQLiteStorage) GetLatestBatch(ctx context.Context) (model.BatchID, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var batch sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(batch_id) FROM test_records").Scan(&batch)
	if err != nil {
		return 0, fmt.Errorf("failed to query latest batch: %w", err)
	}
	if !batch.Valid {
		return 0, common.ErrNotFound
	}
	return model.BatchID(batch.Int64), nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (model.TestRecord, error) {
	var rec model.TestRecord
	var class string
	var batch int64

	err := row.Scan(
		&rec.ID, &rec.AssetID, &rec.Site, &rec.User, &rec.TestDate,
		&rec.TestType, &class, &rec.Visual, &rec.Bond, &rec.Insulation,
		&rec.SubLeakage, &rec.TouchCurrent, &rec.EarthLeakage,
		&rec.LoadVA, &rec.LoadCurrent, &rec.IECFuse, &rec.IECBond,
		&rec.IECInsu, &rec.RCDTrip, &rec.Note, &batch, &rec.DateInferred,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan record: %w", err)
	}

	rec.Class = model.ApplianceClass(class)
	rec.BatchID = model.BatchID(batch)
	return rec, nil
}
