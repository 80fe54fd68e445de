package engine

import (
	"context"
	"log/slog"

	"table-pump/internal/connector"
	"table-pump/internal/dataset"
)

// Transfer copies the result of query on src into table on dst and verifies
// the target gained every row.
func Transfer(ctx context.Context, src, dst *connector.Database, query, table string, opts Options) (PumpResult, error) {
	opts = opts.withDefaults()
	ds, err := dataset.FromSQL(ctx, src, query)
	if err != nil {
		return PumpResult{Table: table}, err
	}
	defer ds.Close()
	opts.Logger.Info("transferring rows",
		slog.String("from", src.Descriptor().String()), slog.String("to", dst.Descriptor().String()),
		slog.String("table", table), slog.Int("rows", ds.Len()))
	return Load(ctx, dst, table, ds, opts)
}
