package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"table-pump/internal/dataset"
	"table-pump/internal/engine"
)

var (
	loadFile  string
	loadTable string
	loadSheet string
	loadClean bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a csv, xlsx or json file into a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ds, err := readDataset(loadFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", loadFile, err)
		}
		defer ds.Close()

		db, err := openDB(ctx, "")
		if err != nil {
			return err
		}
		defer db.Close()

		pr := newProgress()
		res, err := engine.Load(ctx, db, loadTable, ds, pr.options(loadClean))
		pr.stop()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

func readDataset(name string) (*dataset.Dataset, error) {
	switch fileKind(name) {
	case ".xlsx", ".xlsm":
		return dataset.FromExcel(name, loadSheet, dataset.SheetOptions{
			HeaderRow: csvFlags.header,
			NoHeader:  csvFlags.noHeader,
		})
	case ".json":
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return dataset.FromJSON(f)
	default:
		return dataset.FromCSV(name, csvFlags.options())
	}
}

func init() {
	RootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVarP(&loadFile, "file", "f", "", "input file (.csv, .csv.gz, .xlsx, .json ...)")
	loadCmd.Flags().StringVar(&loadTable, "table", "", "target table")
	loadCmd.Flags().StringVar(&loadSheet, "sheet", "", "sheet to read from an xlsx file (default: active sheet)")
	loadCmd.Flags().BoolVar(&loadClean, "clean", false, "clear the table before loading")
	loadCmd.Flags().StringVar(&csvFlags.remote, "remote", "", "sftp:// URL of the directory holding the csv file")
	csvFlags.bind(loadCmd)
	_ = loadCmd.MarkFlagRequired("file")
	_ = loadCmd.MarkFlagRequired("table")
}
