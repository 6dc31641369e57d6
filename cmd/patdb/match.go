package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/jappleby064/pat-database/internal/cli"
	"github.com/jappleby064/pat-database/internal/common"
	"github.com/jappleby064/pat-database/internal/match"
	"github.com/jappleby064/pat-database/internal/model"
	"github.com/jappleby064/pat-database/internal/service"
	"github.com/jappleby064/pat-database/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Suggest registry assets for imported records",
		Long: `Match the records of an import batch against the asset registry by
equipment identifier. Suggestions only; nothing is written until sync.`,
		RunE: runMatch,
	}
	matchCmd.Flags().Int64("batch", 0, "Import batch to match (default: most recent)")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	batchFlag, _ := cmd.Flags().GetInt64("batch")
	candidates, err := matchBatch(cmd, store, batchFlag)
	if err != nil {
		return err
	}

	matched := 0
	duplicates := 0

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RECORD\tASSET ID\tDATE\tSUGGESTION\tNOTE")
	for i := range candidates {
		c := &candidates[i]
		suggestion := "-"
		note := "no match"
		switch {
		case c.Asset != nil && c.Duplicate:
			suggestion = c.Asset.Reference
			note = "duplicate (already tested that day)"
			matched++
			duplicates++
		case c.Asset != nil:
			suggestion = c.Asset.Reference
			note = ""
			matched++
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			c.Record.ID, c.Record.AssetID,
			c.Record.TestDate.Format("2006-01-02"), suggestion, note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d of %d records matched", matched, len(candidates))))
	if duplicates > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d duplicates will be skipped by sync", duplicates)))
	}
	return nil
}

// matchBatch loads a batch's records and pairs each with its suggested
// registry asset, flagging same-day duplicates.
func matchBatch(cmd *cobra.Command, store *storage.SQLiteStorage, batchFlag int64) ([]model.MatchCandidate, error) {
	ctx := cmd.Context()

	batch, err := resolveBatch(ctx, store, batchFlag)
	if err != nil {
		return nil, err
	}

	records, err := store.GetTestRecords(ctx, service.RecordFilter{BatchID: &batch})
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("batch %d: %w", int64(batch), common.ErrNoRecords)
	}

	assets, err := store.GetAllAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	candidates := make([]model.MatchCandidate, 0, len(records))
	for i := range records {
		c := model.MatchCandidate{Record: records[i]}
		c.Asset = match.FindAsset(records[i].AssetID, assets)
		if c.Asset != nil {
			existing, err := store.GetAssetTests(ctx, c.Asset.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load tests for asset %s: %w", c.Asset.Reference, err)
			}
			c.Duplicate = match.IsDuplicate(&c.Record, existing)
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
