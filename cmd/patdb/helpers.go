package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jappleby064/pat-database/internal/config"
	"github.com/jappleby064/pat-database/internal/model"
	"github.com/jappleby064/pat-database/internal/service"
	"github.com/jappleby064/pat-database/internal/storage"
)

// openStorage opens the configured database and brings the schema up to
// date. Callers own the returned store and must Close it.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// resolveBatch turns the --batch flag into a concrete batch identifier,
// defaulting to the most recent import.
func resolveBatch(ctx context.Context, store service.Storage, flag int64) (model.BatchID, error) {
	if flag > 0 {
		return model.BatchID(flag), nil
	}
	batch, err := store.GetLatestBatch(ctx)
	if err != nil {
		return 0, fmt.Errorf("no imports found: %w", err)
	}
	return batch, nil
}

// parseIDList parses a comma-separated list of record IDs.
func parseIDList(s string) (map[int64]bool, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	ids := make(map[int64]bool)
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid record id %q: %w", part, err)
		}
		ids[id] = true
	}
	return ids, nil
}
