// Package repo provides sql access for location history and import runs.
// Statements are written once with $N placeholders and run on postgres or sqlite
package repo

import (
	"context"
	"errors"
	"time"

	"locsync/internal/core/takeout"
	"locsync/internal/modkit/repokit"
	perr "locsync/internal/platform/errors"
	"locsync/internal/platform/store"
	ptime "locsync/internal/platform/time"
	"locsync/internal/services/importer/domain"
)

type queries struct{ q repokit.Queryer }

// New returns the sql binder for domain.StorageRepo
func New() repokit.BindFunc[domain.StorageRepo] {
	return func(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }
}

const insertLocationSQL = `
	INSERT INTO locations (time_ms, lat_e7, lng_e7, source, place_id, name, import_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (time_ms, lat_e7, lng_e7) DO NOTHING
`

// InsertLocations inserts each record unless its key exists and returns the inserted ones in input order
func (r *queries) InsertLocations(ctx context.Context, importID string, locs []domain.Location, at time.Time) ([]domain.Location, error) {
	out := make([]domain.Location, 0, len(locs))
	created := at.UnixMilli()
	for _, l := range locs {
		k := l.Key()
		tag, err := r.q.Exec(ctx, insertLocationSQL,
			k.TimeMs, k.LatE7, k.LngE7, l.Source, l.PlaceID, l.Name, importID, created,
		)
		if err != nil {
			return nil, perr.WithOp(err, "repo.InsertLocations")
		}
		if tag.RowsAffected() == 1 {
			out = append(out, l)
		}
	}
	return out, nil
}

// StartRun records a running import
func (r *queries) StartRun(ctx context.Context, id, archive string, at time.Time) error {
	return store.ExecOne(ctx, r.q, `
		INSERT INTO import_runs (id, archive, status, started_at)
		VALUES ($1, $2, $3, $4)
	`, id, archive, domain.RunRunning, at.UnixMilli())
}

// FinishRun stores the outcome of a run
func (r *queries) FinishRun(ctx context.Context, id string, fin domain.RunFinish) error {
	err := store.ExecOne(ctx, r.q, `
		UPDATE import_runs SET
			status = $1,
			files_found = $2,
			parsed = $3,
			inserted = $4,
			err_text = $5,
			finished_at = $6
		WHERE id = $7
	`, fin.Status, fin.FilesFound, fin.Parsed, fin.Inserted, fin.ErrText, fin.FinishedAt.UnixMilli(), id)
	if err != nil {
		return perr.WithOp(err, "repo.FinishRun")
	}
	return nil
}

// GetRun loads a run by id
func (r *queries) GetRun(ctx context.Context, id string) (domain.Run, error) {
	run, err := store.One(ctx, r.q, scanRun, `
		SELECT id, archive, status, files_found, parsed, inserted, err_text, started_at, finished_at
		FROM import_runs
		WHERE id = $1
	`, id)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.Run{}, perr.WithField(perr.NotFoundf("import run %s not found", id), "id")
	}
	return run, err
}

// ListLocations reads stored records newest first
func (r *queries) ListLocations(ctx context.Context, lq domain.ListQuery) ([]domain.Location, error) {
	out, err := store.Many(ctx, r.q, scanLocation, `
		SELECT time_ms, lat_e7, lng_e7, source, place_id, name
		FROM locations
		WHERE time_ms >= $1 AND time_ms < $2
		ORDER BY time_ms DESC, lat_e7, lng_e7
		LIMIT $3
	`, lq.From.UnixMilli(), lq.To.UnixMilli(), lq.Limit)
	if out == nil && err == nil {
		out = []domain.Location{}
	}
	return out, err
}

func scanRun(row store.Row) (domain.Run, error) {
	var (
		run        domain.Run
		started    int64
		finishedMs *int64
	)
	if err := row.Scan(&run.ID, &run.Archive, &run.Status, &run.FilesFound, &run.Parsed,
		&run.Inserted, &run.Error, &started, &finishedMs); err != nil {
		return run, err
	}
	run.StartedAt = ptime.UnixMilli(started)
	if finishedMs != nil {
		run.FinishedAt = ptime.Ptr(ptime.UnixMilli(*finishedMs))
	}
	return run, nil
}

func scanLocation(row store.Row) (domain.Location, error) {
	var (
		l              domain.Location
		ms, latE7, lng int64
	)
	if err := row.Scan(&ms, &latE7, &lng, &l.Source, &l.PlaceID, &l.Name); err != nil {
		return l, err
	}
	l.Time = ptime.UnixMilli(ms)
	l.Latitude = takeout.FromE7(latE7)
	l.Longitude = takeout.FromE7(lng)
	return l, nil
}
