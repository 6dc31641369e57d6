// Package registry reconciles confirmed test records into the asset
// registry: it converts each record into the registry's test schema,
// re-checks for same-day duplicates, and commits the whole batch
// atomically.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jappleby064/pat-database/internal/match"
	"github.com/jappleby064/pat-database/internal/model"
	"github.com/jappleby064/pat-database/internal/patfile"
)

// Store is the slice of the persistence layer the committer needs.
type Store interface {
	GetAssetTests(ctx context.Context, assetID int64) ([]model.AssetTest, error)
	CommitAssetTests(ctx context.Context, tests []model.AssetTest, assets []model.Asset) error
}

// Pair is one confirmed (record, asset) mapping queued for commit. The
// caller has already filtered out unmatched and unwanted records.
type Pair struct {
	Record model.TestRecord
	Asset  model.Asset
}

// Committer writes confirmed pairs into the asset registry.
type Committer struct {
	store Store
}

// NewCommitter creates a committer backed by the given store.
func NewCommitter(store Store) *Committer {
	return &Committer{store: store}
}

// Sync converts each pair into a registry test entity and commits the
// batch in one atomic store operation. Duplicates are counted and
// skipped, never errored; a failed commit surfaces as a single aggregate
// error string. The synced count reflects what was queued for commit, so
// on commit failure it can overstate what the store actually persisted —
// callers must treat a non-empty Errors list as "re-run the whole sync".
func (c *Committer) Sync(ctx context.Context, pairs []Pair) model.SyncOutcome {
	var outcome model.SyncOutcome

	batch := make([]model.AssetTest, 0, len(pairs))
	assetState := make(map[int64]*model.Asset)

	for i := range pairs {
		pair := &pairs[i]

		existing, err := c.store.GetAssetTests(ctx, pair.Asset.ID)
		if err != nil {
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("failed to load tests for asset %s: %v", pair.Asset.Reference, err))
			continue
		}

		// The caller filters duplicates already; re-check here so a
		// stale selection cannot double-book a test day.
		if match.IsDuplicate(&pair.Record, existing) || queuedSameDay(batch, pair) {
			outcome.Skipped++
			slog.Debug("Skipped duplicate test",
				"asset", pair.Asset.Reference,
				"date", pair.Record.TestDate.Format("2006-01-02"))
			continue
		}

		batch = append(batch, buildAssetTest(&pair.Record, pair.Asset.ID))
		outcome.Synced++

		applyLastTested(assetState, pair)
	}

	if len(batch) == 0 {
		return outcome
	}

	assets := make([]model.Asset, 0, len(assetState))
	for _, a := range assetState {
		assets = append(assets, *a)
	}

	if err := c.store.CommitAssetTests(ctx, batch, assets); err != nil {
		outcome.Errors = append(outcome.Errors,
			fmt.Sprintf("failed to commit batch of %d tests: %v", len(batch), err))
	}

	return outcome
}

// queuedSameDay guards against two records for the same asset and day
// arriving within one sync call, which the store re-check cannot see.
func queuedSameDay(batch []model.AssetTest, pair *Pair) bool {
	for i := range batch {
		if batch[i].AssetID == pair.Asset.ID && match.SameDay(batch[i].TestDate, pair.Record.TestDate) {
			return true
		}
	}
	return false
}

// applyLastTested updates the asset's cached last-test date and status
// when this record is the newest test seen for it.
func applyLastTested(state map[int64]*model.Asset, pair *Pair) {
	asset := state[pair.Asset.ID]
	if asset == nil {
		copied := pair.Asset
		asset = &copied
		state[pair.Asset.ID] = asset
	}

	if asset.LastTested != nil && !pair.Record.TestDate.After(*asset.LastTested) {
		return
	}

	date := pair.Record.TestDate
	asset.LastTested = &date
	if pair.Record.OverallResult() == model.ResultPass {
		asset.Status = model.StatusGood
	} else {
		asset.Status = model.StatusFailed
	}
}

// buildAssetTest maps a canonical record into the registry's test
// schema. Classification and visual results outside their closed
// vocabularies fall back to "N/A"; unparseable readings become nil
// rather than zero so the registry can tell "not measured" from "0".
func buildAssetTest(rec *model.TestRecord, assetID int64) model.AssetTest {
	t := model.AssetTest{
		AssetID:   assetID,
		TestDate:  rec.TestDate,
		Result:    rec.OverallResult(),
		Inspector: rec.User,
		Class:     "N/A",
		Visual:    "N/A",
		Notes:     rec.Note,
	}

	if rec.Class.Valid() {
		t.Class = string(rec.Class)
	}
	if rec.Visual == model.ResultPass || rec.Visual == model.ResultFail {
		t.Visual = rec.Visual
	}

	t.EarthContinuity = reading(prefer(rec.IECBond, rec.Bond))
	t.InsulationRes = reading(prefer(rec.IECInsu, rec.Insulation))
	t.TouchCurrent = reading(rec.TouchCurrent)
	t.SubLeakage = reading(rec.SubLeakage)
	t.FuseRating = reading(rec.IECFuse)
	t.IECBond = reading(rec.IECBond)
	t.IECInsu = reading(rec.IECInsu)

	// Testers report load in VA; the registry stores kVA.
	if v := reading(rec.LoadVA); v != nil {
		kva := *v / 1000
		t.Load = &kva
	}

	return t
}

// prefer picks the IEC-side value over the plain one at the field
// level, before numeric parsing. A non-numeric IEC value (a pass/fail
// verdict from the fused-lead block) therefore suppresses a numeric
// plain reading rather than falling through to it.
func prefer(iec, plain string) string {
	if iec != "" {
		return iec
	}
	return plain
}

func reading(s string) *float64 {
	v, ok := patfile.ParseReading(s)
	if !ok {
		return nil
	}
	return &v
}
