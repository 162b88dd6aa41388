//go:build integration_pg

package repo

import (
	"context"
	"testing"
	"time"

	perr "locsync/internal/platform/errors"
	"locsync/internal/platform/logger"
	"locsync/internal/platform/store"
	"locsync/internal/platform/store/pgtest"
	ptime "locsync/internal/platform/time"
	"locsync/internal/services/importer/domain"
)

func TestLocal_Postgres(t *testing.T) {
	dsn := pgtest.Start(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "locsync-repo-it",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	db, _, err := st.SQL()
	if err != nil {
		t.Fatalf("sql: %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	l := NewLocal(db, ptime.NewFixed(ref), 0)

	a := loc(51.5007, -0.1246, ref.Add(-2*time.Hour))
	b := loc(48.8584, 2.2945, ref.Add(-time.Hour))

	ictx := logger.WithImport(ctx, "run-pg")
	got, err := l.MergeWithLocalData(ictx, []domain.Location{a, b, a})
	if err != nil || len(got) != 2 {
		t.Fatalf("first merge = %+v, %v", got, err)
	}
	got, err = l.MergeWithLocalData(ictx, []domain.Location{a, b})
	if err != nil || len(got) != 0 {
		t.Fatalf("second merge = %+v, %v", got, err)
	}

	list, err := l.ListLocations(ctx, domain.ListQuery{From: ref.Add(-24 * time.Hour), To: ref, Limit: 10})
	if err != nil || len(list) != 2 || list[0] != b || list[1] != a {
		t.Fatalf("list = %+v, %v", list, err)
	}

	if err := l.StartRun(ctx, "run-pg", "takeout.zip", ref); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := l.StartRun(ctx, "run-pg", "takeout.zip", ref); !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		t.Fatalf("duplicate start err = %v", err)
	}
	if err := l.FinishRun(ctx, "run-pg", domain.RunFinish{Status: domain.RunOK, FilesFound: 2, Parsed: 3, Inserted: 2, FinishedAt: ref}); err != nil {
		t.Fatalf("finish: %v", err)
	}
	run, err := l.GetRun(ctx, "run-pg")
	if err != nil || run.Status != domain.RunOK || run.Inserted != 2 || run.FinishedAt == nil {
		t.Fatalf("run = %+v, %v", run, err)
	}
}
