package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/jappleby064/pat-database/internal/cli"
	"github.com/jappleby064/pat-database/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Work with imported test records",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List imported test records",
		RunE:  runRecordsList,
	}
	listCmd.Flags().Int64("batch", 0, "Only records from this import batch")
	listCmd.Flags().Bool("latest", false, "Only records from the most recent import")
	listCmd.Flags().Bool("failed", false, "Only failed tests")
	listCmd.Flags().Int("limit", 0, "Maximum number of records to show")

	recordsCmd.AddCommand(listCmd)
	rootCmd.AddCommand(recordsCmd)
}

func runRecordsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var filter service.RecordFilter
	filter.FailedOnly, _ = cmd.Flags().GetBool("failed")
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	batchFlag, _ := cmd.Flags().GetInt64("batch")
	latest, _ := cmd.Flags().GetBool("latest")
	if batchFlag > 0 || latest {
		batch, err := resolveBatch(ctx, store, batchFlag)
		if err != nil {
			return err
		}
		filter.BatchID = &batch
	}

	records, err := store.GetTestRecords(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	if len(records) == 0 {
		fmt.Println(cli.FormatWarning("No records found"))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tASSET\tDATE\tSITE\tCLASS\tRESULT\tNOTE")
	for i := range records {
		rec := &records[i]
		date := rec.TestDate.Format("2006-01-02")
		if rec.DateInferred {
			date += "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.AssetID, date, rec.Site, rec.Class,
			rec.OverallResult(), rec.Note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d records", len(records))
	fmt.Println(cli.SubtleStyle.Render("  (* date substituted at import)"))
	return nil
}
