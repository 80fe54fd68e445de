package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"table-pump/internal/engine"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clear all rows from tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx, "")
		if err != nil {
			return err
		}
		defer db.Close()

		targets, err := targetTables(ctx, db)
		if err != nil {
			return err
		}
		if err := engine.Clean(ctx, db, targets...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleaned %d tables\n", len(targets))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to clean (comma-separated)")
}
