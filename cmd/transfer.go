package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"table-pump/internal/engine"
)

var (
	transferFrom  string
	transferTo    string
	transferSQL   string
	transferTable string
	transferClean bool
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Copy a query result from one database into a table of another",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		src, err := openDB(ctx, transferFrom)
		if err != nil {
			return err
		}
		defer src.Close()
		dst, err := openDB(ctx, transferTo)
		if err != nil {
			return err
		}
		defer dst.Close()

		pr := newProgress()
		res, err := engine.Transfer(ctx, src, dst, transferSQL, transferTable, pr.options(transferClean))
		pr.stop()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(transferCmd)
	transferCmd.Flags().StringVar(&transferFrom, "from", "", "source connection URL or name (default: active connection)")
	transferCmd.Flags().StringVar(&transferTo, "to", "", "target connection URL or name")
	transferCmd.Flags().StringVar(&transferSQL, "sql", "", "query to run on the source")
	transferCmd.Flags().StringVar(&transferTable, "table", "", "target table")
	transferCmd.Flags().BoolVar(&transferClean, "clean", false, "clear the target table first")
	_ = transferCmd.MarkFlagRequired("to")
	_ = transferCmd.MarkFlagRequired("sql")
	_ = transferCmd.MarkFlagRequired("table")
}
