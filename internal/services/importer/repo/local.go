package repo

import (
	"context"
	"math"
	"time"

	"locsync/internal/core/takeout"
	"locsync/internal/modkit/repokit"
	"locsync/internal/platform/logger"
	ptime "locsync/internal/platform/time"
	"locsync/internal/services/importer/domain"
)

// Local is the sql backed LocalStore, RunLog and ReaderPort
type Local struct {
	DB        repokit.TxRunner
	Binder    repokit.Binder[domain.StorageRepo]
	Clock     ptime.Clock
	Retention time.Duration // zero keeps all history
}

var (
	_ domain.LocalStore = (*Local)(nil)
	_ domain.RunLog     = (*Local)(nil)
	_ domain.ReaderPort = (*Local)(nil)
)

// NewLocal binds the repo to db
func NewLocal(db repokit.TxRunner, clock ptime.Clock, retention time.Duration) *Local {
	if db == nil {
		panic("repo.Local requires a non nil TxRunner")
	}
	if clock == nil {
		clock = ptime.System{}
	}
	return &Local{DB: db, Binder: New(), Clock: clock, Retention: retention}
}

// MergeWithLocalData inserts the records not already stored in one transaction and returns them
// in input order. Invalid records, records older than the retention window and repeats within
// the batch are dropped. The import id on ctx tags the inserted rows
func (l *Local) MergeWithLocalData(ctx context.Context, locs []domain.Location) ([]domain.Location, error) {
	now := l.Clock.Now()
	batch := l.prepare(locs, now)
	if len(batch) == 0 {
		return []domain.Location{}, nil
	}

	var out []domain.Location
	err := repokit.WithTx(ctx, l.DB, func(q repokit.Queryer) error {
		var err error
		out, err = l.repo(q).InsertLocations(ctx, logger.ImportID(ctx), batch, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Local) repo(q repokit.Queryer) domain.StorageRepo { return repokit.MustBind(l.Binder, q) }

func (l *Local) prepare(locs []domain.Location, now time.Time) []domain.Location {
	cutoff := int64(math.MinInt64)
	if l.Retention > 0 {
		cutoff = now.Add(-l.Retention).UnixMilli()
	}
	seen := make(map[takeout.Key]struct{}, len(locs))
	out := make([]domain.Location, 0, len(locs))
	for _, loc := range locs {
		if !loc.Valid() {
			continue
		}
		k := loc.Key()
		if k.TimeMs < cutoff {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, loc)
	}
	return out
}

// StartRun records a running import
func (l *Local) StartRun(ctx context.Context, id, archive string, at time.Time) error {
	return l.repo(l.DB).StartRun(ctx, id, archive, at)
}

// FinishRun stores a run outcome
func (l *Local) FinishRun(ctx context.Context, id string, fin domain.RunFinish) error {
	return l.repo(l.DB).FinishRun(ctx, id, fin)
}

// GetRun loads one run
func (l *Local) GetRun(ctx context.Context, id string) (domain.Run, error) {
	return l.repo(l.DB).GetRun(ctx, id)
}

// ListLocations reads stored records
func (l *Local) ListLocations(ctx context.Context, q domain.ListQuery) ([]domain.Location, error) {
	return l.repo(l.DB).ListLocations(ctx, q)
}
