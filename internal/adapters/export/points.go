// Package export appends newly imported locations to ClickHouse for analytics
package export

import (
	"context"
	"fmt"

	"locsync/internal/core/takeout"
	perr "locsync/internal/platform/errors"
	"locsync/internal/platform/store"
)

// DefaultTable receives one row per newly inserted location
const DefaultTable = "location_points"

var columns = []string{"import_id", "ts", "point", "source", "place_id"}

// Points writes location batches to a ClickHouse table
type Points struct {
	ch    store.Clickhouse
	table string
}

// New returns a Points exporter; empty table selects DefaultTable
func New(ch store.Clickhouse, table string) *Points {
	if table == "" {
		table = DefaultTable
	}
	return &Points{ch: ch, table: table}
}

// Migrate creates the target table when missing
func (p *Points) Migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	import_id String,
	ts DateTime64(3, 'UTC'),
	point Point,
	source LowCardinality(String),
	place_id String
) ENGINE = MergeTree
ORDER BY (ts, import_id)`, p.table)
	if err := p.ch.Exec(ctx, ddl); err != nil {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeDB, "create %s", p.table), "export.Migrate")
	}
	return nil
}

// Export appends locs tagged with importID in a single batch
func (p *Points) Export(ctx context.Context, importID string, locs []takeout.Location) error {
	if len(locs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(locs))
	for _, l := range locs {
		rows = append(rows, []any{importID, l.Time.UTC(), l.Point(), l.Source, l.PlaceID})
	}
	if err := p.ch.Insert(ctx, p.table, columns, rows); err != nil {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeDB, "insert %d rows into %s", len(rows), p.table), "export.Export")
	}
	return nil
}
