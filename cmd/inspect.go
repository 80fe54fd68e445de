package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"table-pump/internal/connector"
	"table-pump/internal/errs"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [table]",
	Short: "Show the engine version, tables and views, or the columns and indexes of a table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx, "")
		if err != nil {
			return err
		}
		defer db.Close()

		w := cmd.OutOrStdout()
		if len(args) == 1 {
			return inspectTable(cmd, db, args[0])
		}

		version, err := db.Version(ctx)
		if err := limitation(w, err); err != nil {
			return err
		}
		if version != "" {
			fmt.Fprintf(w, "%s %s\n", db.Engine(), version)
		}

		tables, err := db.Tables(ctx)
		if err := limitation(w, err); err != nil {
			return err
		}
		t := newTable(w, "table")
		for _, name := range tables {
			t.AppendRow(table.Row{name})
		}
		t.Render()

		views, err := db.Views(ctx)
		if err := limitation(w, err); err != nil {
			return err
		}
		t = newTable(w, "view", "check option", "updatable", "insertable", "deletable")
		for _, v := range views {
			t.AppendRow(table.Row{v.Name, v.CheckOption, v.Updatable, v.Insertable, v.Deletable})
		}
		t.Render()
		return nil
	},
}

func inspectTable(cmd *cobra.Command, db *connector.Database, name string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	cols, err := db.TableColumns(ctx, name)
	if err := limitation(w, err); err != nil {
		return err
	}
	t := newTable(w, "#", "column", "type", "nullable", "default", "comments")
	for _, c := range cols {
		t.AppendRow(table.Row{c.ID, c.Name, c.DataType, c.Nullable, c.DefaultValue, c.Comments})
	}
	t.Render()

	indexes, err := db.Indexes(ctx, name)
	if err := limitation(w, err); err != nil {
		return err
	}
	t = newTable(w, "index", "type", "unique", "columns")
	for _, ix := range indexes {
		icols, err := db.IndexColumns(ctx, ix.Name)
		if err := limitation(w, err); err != nil {
			return err
		}
		var names []string
		for _, c := range icols {
			n := c.Name
			if c.Expression != "" {
				n = c.Expression
			}
			if c.Descend == "DESC" {
				n += " DESC"
			}
			names = append(names, n)
		}
		t.AppendRow(table.Row{ix.Name, ix.Type, ix.Unique, strings.Join(names, ", ")})
	}
	t.Render()
	return nil
}

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

// limitation prints introspection limits and passes other errors through.
func limitation(w io.Writer, err error) error {
	var lim *errs.LimitationError
	if errors.As(err, &lim) {
		fmt.Fprintln(w, lim.Message)
		return nil
	}
	return err
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
