package store

import (
	"context"
	"errors"
	"time"

	perr "locsync/internal/platform/errors"
	"locsync/internal/platform/store/pg"
	"locsync/internal/platform/store/sqltrace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgx surface shared by the pool and a transaction
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgAdapter wraps pg.PG and implements TxRunner.
// every statement, including those inside Tx, goes through the tracer when one is set
type pgAdapter struct {
	p  *pg.PG
	rq pgQuerier
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{p: p, rq: pgQuerier{q: p.Pool, em: p.Emitter()}}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return a.rq.Exec(ctx, sql, args...)
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return a.rq.Query(ctx, sql, args...)
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return a.rq.QueryRow(ctx, sql, args...)
}

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return perr.FromPostgres(err, "begin tx")
	}
	if err := fn(pgQuerier{q: tx, em: a.rq.em}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return perr.FromPostgres(err, "commit tx")
	}
	return nil
}

// pgQuerier adapts a pgx querier to RowQuerier and emits trace events
type pgQuerier struct {
	q  pgxQuerier
	em sqltrace.Emitter
}

func (t pgQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.em.Emit(ctx, sql, args, time.Since(start).Microseconds(), err)
	if err != nil {
		return nil, perr.FromPostgres(err, "exec")
	}
	return ct, nil
}

func (t pgQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	t.em.Emit(ctx, sql, args, time.Since(start).Microseconds(), err)
	if err != nil {
		return nil, perr.FromPostgres(err, "query")
	}
	return pgRows{r: rs}, nil
}

func (t pgQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.q.QueryRow(ctx, sql, args...)
	return scanHook{
		scan: r.Scan,
		after: func(scanErr error) {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				scanErr = nil
			}
			t.em.Emit(ctx, sql, args, time.Since(start).Microseconds(), scanErr)
		},
		noRows: pgx.ErrNoRows,
	}
}

// scanHook runs after once Scan returns and maps the driver's no-rows error to perr.ErrNotFound
type scanHook struct {
	scan   func(dst ...any) error
	after  func(error)
	noRows error
}

func (x scanHook) Scan(dst ...any) error {
	err := x.scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	if err != nil && x.noRows != nil && errors.Is(err, x.noRows) {
		return perr.ErrNotFound
	}
	return err
}

type pgRows struct{ r pgx.Rows }

func (x pgRows) Next() bool            { return x.r.Next() }
func (x pgRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x pgRows) Err() error            { return x.r.Err() }
func (x pgRows) Close()                { x.r.Close() }
func (x pgRows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}
