package main

import (
	"fmt"

	"github.com/jappleby064/pat-database/internal/cli"
	"github.com/jappleby064/pat-database/internal/common"
	"github.com/jappleby064/pat-database/internal/model"
	"github.com/jappleby064/pat-database/internal/registry"
	"github.com/spf13/cobra"
)

func init() {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Commit matched records into the asset registry",
		Long: `Reconcile an import batch against the asset registry. Matched,
non-duplicate records are converted into registry tests and committed in
one atomic batch. Unmatched records are left alone; resolve them by
adding the asset and re-running sync.`,
		RunE: runSync,
	}
	syncCmd.Flags().Int64("batch", 0, "Import batch to sync (default: most recent)")
	syncCmd.Flags().String("ids", "", "Comma-separated record IDs to sync (default: all matched)")
	syncCmd.Flags().BoolP("dry-run", "d", false, "Preview without committing")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

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

	idsFlag, _ := cmd.Flags().GetString("ids")
	selected, err := parseIDList(idsFlag)
	if err != nil {
		return err
	}

	pairs, unmatched, duplicates, planErr := buildSyncPairs(candidates, selected)

	if dryRun {
		fmt.Println(cli.FormatTitle("Dry run"))
		fmt.Printf("Would commit %d tests (%d unmatched, %d duplicates skipped)\n",
			len(pairs), unmatched, duplicates)
		return nil
	}

	if planErr != nil {
		if unmatched > 0 {
			fmt.Printf("%d records have no matching asset; add them with 'patdb assets add'\n", unmatched)
		}
		return planErr
	}

	outcome := registry.NewCommitter(store).Sync(ctx, pairs)

	fmt.Println(cli.FormatTitle("Sync complete"))
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d tests committed", outcome.Synced)))
	if skipped := outcome.Skipped + duplicates; skipped > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d duplicates skipped", skipped)))
	}
	if unmatched > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d records unmatched", unmatched)))
	}
	for _, msg := range outcome.Errors {
		fmt.Println(cli.FormatError(msg))
	}
	if !outcome.OK() {
		return fmt.Errorf("sync finished with %d errors", len(outcome.Errors))
	}
	return nil
}

// buildSyncPairs partitions match candidates into committable pairs,
// unmatched records, and same-day duplicates, honoring an optional record
// ID selection.
func buildSyncPairs(candidates []model.MatchCandidate, selected map[int64]bool) ([]registry.Pair, int, int, error) {
	var pairs []registry.Pair
	unmatched := 0
	duplicates := 0
	for i := range candidates {
		c := &candidates[i]
		if selected != nil && !selected[c.Record.ID] {
			continue
		}
		switch {
		case c.Asset == nil:
			unmatched++
		case c.Duplicate:
			duplicates++
		default:
			pairs = append(pairs, registry.Pair{Record: c.Record, Asset: *c.Asset})
		}
	}
	if len(pairs) == 0 {
		return nil, unmatched, duplicates, common.NewUserError("nothing to sync", common.ErrNothingToSync)
	}
	return pairs, unmatched, duplicates, nil
}
