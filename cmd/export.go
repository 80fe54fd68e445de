package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"table-pump/internal/dataset"
	"table-pump/internal/excel"
)

var (
	exportSQL   string
	exportOut   string
	exportSheet string
	csvFlags    csvFlagSet
)

// csvFlagSet holds the CSV dialect flags shared by export and load.
type csvFlagSet struct {
	delimiter string
	encoding  string
	header    int
	noHeader  bool
	remote    string
}

func (f csvFlagSet) options() dataset.CSVOptions {
	o := dataset.CSVOptions{
		Encoding:  f.encoding,
		HeaderRow: f.header,
		NoHeader:  f.noHeader,
		Remote:    f.remote,
		Logger:    logger,
	}
	if d := []rune(f.delimiter); len(d) > 0 {
		o.Delimiter = d[0]
		if f.delimiter == `\t` {
			o.Delimiter = '\t'
		}
	}
	return o
}

func (f *csvFlagSet) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", ",", `CSV field delimiter (\t for tab)`)
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "CSV text encoding (default utf-8)")
	cmd.Flags().IntVar(&f.header, "header", 1, "1-based header row")
	cmd.Flags().BoolVar(&f.noHeader, "no-header", false, "the data has no header row")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run a query and write the result to xlsx, csv or json",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx, "")
		if err != nil {
			return err
		}
		defer db.Close()

		ds, err := dataset.FromSQL(ctx, db, exportSQL)
		if err != nil {
			return err
		}
		defer ds.Close()

		if exportOut == "" {
			fmt.Fprintln(cmd.OutOrStdout(), ds.String())
			return nil
		}
		if err := writeDataset(ds, exportOut); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		logger.Info("exported", "rows", ds.Len(), "file", exportOut)
		return nil
	},
}

func writeDataset(ds *dataset.Dataset, name string) error {
	switch ext := fileKind(name); ext {
	case ".xlsx", ".xlsm":
		opts := excel.Options{Formatted: viper.GetBool("settings.formatted")}
		if exportSheet != "" {
			opts.SheetNames = []string{exportSheet}
		}
		return ds.ToExcel(name, opts)
	case ".json":
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := ds.WriteJSON(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return ds.ToCSV(name, csvFlags.options())
	}
}

// fileKind is the lower-cased extension, looking through a compression
// suffix: "a.csv.gz" yields ".csv".
func fileKind(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if dataset.CompressionOf(name) != dataset.Uncompressed {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(name, filepath.Ext(name))))
	}
	return ext
}

func init() {
	RootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportSQL, "sql", "", "query to export")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (.xlsx, .json, .csv, .csv.gz ...); prints a preview when empty")
	exportCmd.Flags().StringVar(&exportSheet, "sheet", "", "sheet title for xlsx output")
	csvFlags.bind(exportCmd)
	_ = exportCmd.MarkFlagRequired("sql")
}
