package store

import (
	"context"
	"errors"
	"testing"

	"locsync/internal/platform/store/ch"
)

type fakeCH struct {
	table   string
	columns []string
	rows    [][]any
	execSQL string
	pingErr error
	closed  bool
	result  *fakeCHRows
}

func (f *fakeCH) Insert(_ context.Context, table string, columns []string, rows [][]any) error {
	f.table, f.columns, f.rows = table, columns, rows
	return nil
}
func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error { f.execSQL = sql; return nil }
func (f *fakeCH) Query(context.Context, string, ...any) (ch.Rows, error) {
	if f.result == nil {
		return nil, errors.New("no result")
	}
	return f.result, nil
}
func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error               { f.closed = true; return nil }

type fakeCHRows struct {
	vals   []uint64
	i      int
	closed bool
}

func (r *fakeCHRows) Next() bool { r.i++; return r.i <= len(r.vals) }
func (r *fakeCHRows) Scan(dest ...any) error {
	*(dest[0].(*uint64)) = r.vals[r.i-1]
	return nil
}
func (r *fakeCHRows) Err() error        { return nil }
func (r *fakeCHRows) Close() error      { r.closed = true; return nil }
func (r *fakeCHRows) Columns() []string { return []string{"n"} }

func TestClickhouseAdapter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := &fakeCH{result: &fakeCHRows{vals: []uint64{7}}}
	a := newCHAdapter(f)

	if err := a.Insert(ctx, "location_points", []string{"import_id"}, [][]any{{"x"}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if f.table != "location_points" || len(f.rows) != 1 || f.columns[0] != "import_id" {
		t.Fatalf("insert not forwarded: %+v", f)
	}
	if err := a.Exec(ctx, "CREATE TABLE x"); err != nil || f.execSQL != "CREATE TABLE x" {
		t.Fatalf("Exec not forwarded")
	}

	rows, err := a.Query(ctx, "SELECT count() FROM location_points")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	var n uint64
	if !rows.Next() || rows.Scan(&n) != nil || n != 7 {
		t.Fatalf("scan mismatch n=%d", n)
	}
	if rows.Columns()[0] != "n" {
		t.Fatalf("columns mismatch")
	}
	rows.Close()
	if !f.result.closed {
		t.Fatalf("rows not closed")
	}

	f.result = nil
	if _, err := a.Query(ctx, "SELECT 1"); err == nil {
		t.Fatalf("expected query error")
	}

	s := &Store{CH: a}
	f.pingErr = errors.New("down")
	if err := s.Guard(ctx); err == nil {
		t.Fatalf("Guard should surface ch ping failure")
	}
	if err := s.Close(ctx); err != nil || !f.closed {
		t.Fatalf("Close did not close ch: %v", err)
	}
}
