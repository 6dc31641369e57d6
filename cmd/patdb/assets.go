package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/jappleby064/pat-database/internal/cli"
	"github.com/jappleby064/pat-database/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Maintain the asset registry",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registry assets",
		RunE:  runAssetsList,
	}

	addCmd := &cobra.Command{
		Use:   "add <reference>",
		Short: "Add an asset to the registry",
		Args:  cobra.ExactArgs(1),
		RunE:  runAssetsAdd,
	}
	addCmd.Flags().String("description", "", "What the asset is")
	addCmd.Flags().String("location", "", "Where the asset lives")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an asset and its committed tests",
		Args:  cobra.ExactArgs(1),
		RunE:  runAssetsShow,
	}

	assetsCmd.AddCommand(listCmd, addCmd, showCmd)
	rootCmd.AddCommand(assetsCmd)
}

func runAssetsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	assets, err := store.GetAllAssets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}

	if len(assets) == 0 {
		fmt.Println(cli.FormatWarning("Registry is empty"))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREF\tDESCRIPTION\tLOCATION\tLAST TESTED\tSTATUS")
	for i := range assets {
		a := &assets[i]
		lastTested := "-"
		if a.LastTested != nil {
			lastTested = a.LastTested.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Reference, a.Description, a.Location, lastTested, a.Status)
	}
	return w.Flush()
}

func runAssetsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	description, _ := cmd.Flags().GetString("description")
	location, _ := cmd.Flags().GetString("location")

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	asset := model.Asset{
		Reference:   args[0],
		Description: description,
		Location:    location,
	}
	if err := store.CreateAsset(ctx, &asset); err != nil {
		return fmt.Errorf("failed to add asset: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added asset %s (id %d)", asset.Reference, asset.ID)))
	return nil
}

func runAssetsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid asset id %q: %w", args[0], err)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	asset, err := store.GetAsset(ctx, id)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Asset %s", asset.Reference)))
	fmt.Printf("Description: %s\nLocation: %s\nStatus: %s\n", asset.Description, asset.Location, asset.Status)
	if asset.LastTested != nil {
		fmt.Printf("Last tested: %s\n", asset.LastTested.Format("2006-01-02"))
	}

	tests, err := store.GetAssetTests(ctx, asset.ID)
	if err != nil {
		return fmt.Errorf("failed to load tests: %w", err)
	}
	if len(tests) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No committed tests"))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tRESULT\tCLASS\tINSPECTOR\tNOTES")
	for i := range tests {
		t := &tests[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.TestDate.Format("2006-01-02"), t.Result, t.Class, t.Inspector, t.Notes)
	}
	return w.Flush()
}
