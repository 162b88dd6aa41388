package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	perr "locsync/internal/platform/errors"
	"locsync/internal/platform/store/lite"
	"locsync/internal/platform/store/sqltrace"
)

// database/sql surface shared by *sql.DB and *sql.Tx
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// liteAdapter wraps lite.Lite and implements TxRunner.
// statements arrive with $N placeholders and are rebound to ? before hitting the driver
type liteAdapter struct {
	l  *lite.Lite
	rq liteQuerier
}

func newLiteAdapter(l *lite.Lite) *liteAdapter {
	return &liteAdapter{l: l, rq: liteQuerier{q: l.DB, em: l.Emitter()}}
}

func (a *liteAdapter) Ping(ctx context.Context) error {
	if a == nil || a.l == nil {
		return errors.New("sqlite: nil adapter")
	}
	return a.l.DB.PingContext(ctx)
}

func (a *liteAdapter) Close() error { return a.l.Close() }

func (a *liteAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return a.rq.Exec(ctx, sql, args...)
}

func (a *liteAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return a.rq.Query(ctx, sql, args...)
}

func (a *liteAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return a.rq.QueryRow(ctx, sql, args...)
}

func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.l.DB.BeginTx(ctx, nil)
	if err != nil {
		return perr.FromSQLite(err, "begin tx")
	}
	if err := fn(liteQuerier{q: tx, em: a.rq.em}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return perr.FromSQLite(err, "commit tx")
	}
	return nil
}

type liteQuerier struct {
	q  sqlQuerier
	em sqltrace.Emitter
}

func (t liteQuerier) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	query = Rebind(DialectSQLite, query)
	start := time.Now()
	res, err := t.q.ExecContext(ctx, query, args...)
	t.em.Emit(ctx, query, args, time.Since(start).Microseconds(), err)
	if err != nil {
		return nil, perr.FromSQLite(err, "exec")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	return liteTag{n: n}, nil
}

func (t liteQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	query = Rebind(DialectSQLite, query)
	start := time.Now()
	rs, err := t.q.QueryContext(ctx, query, args...)
	t.em.Emit(ctx, query, args, time.Since(start).Microseconds(), err)
	if err != nil {
		return nil, perr.FromSQLite(err, "query")
	}
	return &liteRows{r: rs}, nil
}

func (t liteQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	query = Rebind(DialectSQLite, query)
	start := time.Now()
	r := t.q.QueryRowContext(ctx, query, args...)
	return scanHook{
		scan: r.Scan,
		after: func(scanErr error) {
			if errors.Is(scanErr, sql.ErrNoRows) {
				scanErr = nil
			}
			t.em.Emit(ctx, query, args, time.Since(start).Microseconds(), scanErr)
		},
		noRows: sql.ErrNoRows,
	}
}

type liteTag struct{ n int64 }

func (t liteTag) String() string      { return "ROWS " + strconv.FormatInt(t.n, 10) }
func (t liteTag) RowsAffected() int64 { return t.n }

type liteRows struct {
	r    *sql.Rows
	cols []string
}

func (x *liteRows) Next() bool            { return x.r.Next() }
func (x *liteRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *liteRows) Err() error            { return x.r.Err() }
func (x *liteRows) Close()                { _ = x.r.Close() }
func (x *liteRows) Columns() []string {
	if x.cols == nil {
		x.cols, _ = x.r.Columns()
	}
	return x.cols
}
