package repo

import (
	"context"

	"locsync/internal/modkit/repokit"
	perr "locsync/internal/platform/errors"
	"locsync/internal/platform/store"
)

// schema is portable across postgres and sqlite; timestamps are epoch ms
var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		time_ms    BIGINT NOT NULL,
		lat_e7     BIGINT NOT NULL,
		lng_e7     BIGINT NOT NULL,
		source     TEXT   NOT NULL DEFAULT '',
		place_id   TEXT   NOT NULL DEFAULT '',
		name       TEXT   NOT NULL DEFAULT '',
		import_id  TEXT   NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		PRIMARY KEY (time_ms, lat_e7, lng_e7)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_locations_import ON locations (import_id)`,
	`CREATE TABLE IF NOT EXISTS import_runs (
		id          TEXT    PRIMARY KEY,
		archive     TEXT    NOT NULL,
		status      TEXT    NOT NULL,
		files_found INTEGER NOT NULL DEFAULT 0,
		parsed      INTEGER NOT NULL DEFAULT 0,
		inserted    INTEGER NOT NULL DEFAULT 0,
		err_text    TEXT    NOT NULL DEFAULT '',
		started_at  BIGINT  NOT NULL,
		finished_at BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS ix_import_runs_started ON import_runs (started_at)`,
}

// Migrate creates the importer tables when missing
func Migrate(ctx context.Context, db repokit.TxRunner) error {
	err := db.Tx(ctx, func(q repokit.Queryer) error {
		return store.ExecAll(ctx, q, schema...)
	})
	if err != nil {
		return perr.WithOp(perr.Wrap(err, perr.ErrorCodeDB, "migrate importer schema"), "repo.Migrate")
	}
	return nil
}
