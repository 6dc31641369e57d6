package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the
// application expects. If the database cannot be migrated to this
// version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS test_records (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					asset_id TEXT NOT NULL,
					site TEXT,
					user TEXT,
					test_date DATETIME NOT NULL,
					test_type TEXT,
					class TEXT,
					visual TEXT,
					bond TEXT,
					insulation TEXT,
					sub_leakage TEXT,
					touch_current TEXT,
					earth_leakage TEXT,
					load_va TEXT,
					load_current TEXT,
					iec_fuse TEXT,
					iec_bond TEXT,
					iec_insu TEXT,
					rcd_trip TEXT,
					note TEXT,
					batch_id INTEGER NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_test_records_batch ON test_records(batch_id)`,
				`CREATE INDEX idx_test_records_asset ON test_records(asset_id)`,

				`CREATE TABLE IF NOT EXISTS assets (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					reference TEXT UNIQUE NOT NULL,
					description TEXT,
					location TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_assets_reference ON assets(reference)`,

				`CREATE TABLE IF NOT EXISTS asset_tests (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					asset_id INTEGER NOT NULL,
					test_date DATETIME NOT NULL,
					result TEXT NOT NULL,
					inspector TEXT,
					class TEXT,
					visual TEXT,
					earth_continuity REAL,
					insulation_resistance REAL,
					touch_current REAL,
					load REAL,
					notes TEXT,
					substitute_leakage REAL,
					fuse_rating REAL,
					iec_bond REAL,
					iec_insulation REAL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (asset_id) REFERENCES assets(id)
				)`,
				`CREATE INDEX idx_asset_tests_asset ON asset_tests(asset_id)`,
				`CREATE INDEX idx_asset_tests_date ON asset_tests(test_date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Track inferred test dates",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE test_records ADD COLUMN date_inferred INTEGER DEFAULT 0`)
			if err != nil {
				return fmt.Errorf("failed to add date_inferred column: %w", err)
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Cache last-tested date and status on assets",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE assets ADD COLUMN last_tested DATETIME`,
				`ALTER TABLE assets ADD COLUMN status TEXT`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
