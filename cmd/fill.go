package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"table-pump/internal/connector"
	"table-pump/internal/engine"
)

var (
	count  int
	clean  bool
	dryRun bool
	tables []string
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill tables with generated data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx, "")
		if err != nil {
			return err
		}
		defer db.Close()

		// Flag > Config > Default
		targetCount := viper.GetInt("settings.default_count")
		if count > 0 {
			targetCount = count
		}

		targets, err := targetTables(ctx, db)
		if err != nil {
			return err
		}

		if dryRun {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Dry run, no data will be written:")
			for i, t := range targets {
				cols, err := db.TableColumns(ctx, t)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "[%02d] %s (%d columns)\n", i+1, t, len(cols))
			}
			return nil
		}

		if clean {
			if err := engine.Clean(ctx, db, targets...); err != nil {
				return err
			}
		}

		logger.Info("starting fill", "count", targetCount, "tables", len(targets))
		start := time.Now()

		pr := newProgress()
		opts := pr.options(false)
		var results []engine.PumpResult
		for _, t := range targets {
			res, err := engine.Fill(ctx, db, t, targetCount, opts)
			if err != nil {
				logger.Warn("fill failed", "table", t, "error", err)
			}
			results = append(results, res)
		}
		pr.stop()

		verified := engine.Verify(ctx, db, results)
		report(cmd, verified)
		logger.Info("fill done", "elapsed", time.Since(start))
		return nil
	},
}

// targetTables picks --tables, then settings.tables, then every table.
func targetTables(ctx context.Context, db *connector.Database) ([]string, error) {
	all, err := db.Tables(ctx)
	if err != nil {
		return nil, err
	}
	names := tables
	if len(names) == 0 {
		names = viper.GetStringSlice("settings.tables")
	}
	if len(names) == 0 {
		return all, nil
	}

	known := make(map[string]string, len(all))
	for _, t := range all {
		known[strings.ToLower(t)] = t
	}
	var out []string
	for _, n := range names {
		if t, ok := known[strings.ToLower(n)]; ok {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", names)
	}
	return out, nil
}

func report(cmd *cobra.Command, results []engine.PumpResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "\nSummary Report:")
	total := 0
	for i, r := range results {
		icon := "✓"
		if r.Status != engine.StatusOK {
			icon = "!"
		}
		fmt.Fprintf(w, "[%s] [%02d/%02d] %-20s : %d rows (Target: %d) - %s\n",
			icon, i+1, len(results), r.Table, r.Actual, r.Target, r.Status)
		if r.Error != "" {
			fmt.Fprintf(w, "    └ Error: %s\n", r.Error)
		}
		total += r.Actual
	}
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total rows: %d\n", total)
}

func init() {
	RootCmd.AddCommand(fillCmd)

	fillCmd.Flags().IntVar(&count, "count", 0, "Number of records to generate per table (overrides config)")
	fillCmd.Flags().BoolVar(&clean, "clean", false, "Clean tables before filling")
	fillCmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the target tables without writing")
	fillCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to fill (comma-separated)")
}
