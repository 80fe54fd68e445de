// Package engine runs the table pump workflows on top of the connection
// manager: copying a query result into a table, filling tables with fake rows
// and clearing them, each verified by row counts.
package engine

import (
	"fmt"
	"log/slog"
)

const (
	StatusOK      = "OK"
	StatusMissing = "MISSING DATA"
)

// PumpResult reports how many rows a workflow meant to write to a table and
// how many the table gained.
type PumpResult struct {
	Table  string
	Target int
	Actual int
	Status string
	Error  string
}

func (r PumpResult) String() string {
	s := fmt.Sprintf("%s: %d/%d %s", r.Table, r.Actual, r.Target, r.Status)
	if r.Error != "" {
		s += " (" + r.Error + ")"
	}
	return s
}

// Options tune the workflows.
type Options struct {
	Logger *slog.Logger
	// BatchSize is the number of rows per insert call, default 1000.
	BatchSize int
	// Clean clears the target table before loading.
	Clean bool
	// Seed makes generated rows reproducible; zero picks a random seed.
	Seed int64
	// OnStart is called once the row count of a load is known.
	OnStart func(table string, rows int)
	// OnProgress receives the number of rows written by each batch.
	OnProgress func(rows int)
}

const defaultBatchSize = 1000

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	return o
}

func status(actual, target int) string {
	if actual < target {
		return StatusMissing
	}
	return StatusOK
}
