// Package lite provides an embedded SQLite client over database/sql and modernc.org/sqlite
package lite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"locsync/internal/platform/store/sqltrace"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Config configures the sqlite database
type Config struct {
	Path        string
	BusyTimeout time.Duration
	SlowMs      int
}

// Lite is a sqlite handle with an optional tracer
type Lite struct {
	DB     *sql.DB
	Tracer sqltrace.Tracer
	SlowMs int
}

// DSN renders the modernc connection string with WAL and busy timeout pragmas
func DSN(cfg Config) string {
	bt := cfg.BusyTimeout
	if bt <= 0 {
		bt = 5 * time.Second
	}
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", bt.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + cfg.Path + "?" + q.Encode()
}

// Open creates the parent directory, opens the database and pings it
func Open(ctx context.Context, cfg Config, tracer sqltrace.Tracer) (*Lite, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, err
	}
	// a single writer keeps sqlite from returning SQLITE_BUSY under the pool
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", cfg.Path, err)
	}
	return &Lite{DB: db, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Emitter returns the trace emitter for statements issued on this handle
func (l *Lite) Emitter() sqltrace.Emitter {
	if l == nil {
		return sqltrace.Emitter{}
	}
	return sqltrace.Emitter{Tracer: l.Tracer, SlowUS: int64(l.SlowMs) * 1000}
}

// Close closes the database
func (l *Lite) Close() error {
	if l == nil || l.DB == nil {
		return nil
	}
	return l.DB.Close()
}
