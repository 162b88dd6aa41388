package store

import (
	"context"
	"fmt"
	"time"

	chx "locsync/internal/platform/store/ch"
	"locsync/internal/platform/store/lite"
	"locsync/internal/platform/store/pg"
	"locsync/internal/platform/store/sqltrace"
)

// openPG opens pg, waits for it to answer pings and wraps it with our adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer sqltrace.Tracer
	if cfg.PG.LogSQL {
		tracer = sqltrace.New(s.Log, "pg")
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	maxAttempts := cfg.PG.ConnectRetries
	if maxAttempts <= 0 {
		maxAttempts = 20
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()

		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		s.Log.Debug().Err(lastErr).Int("attempt", i+1).Msg("postgres not ready")

		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", maxAttempts, lastErr)
}

// openLite opens the sqlite file and wraps it with our adapter
func openLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer sqltrace.Tracer
	if cfg.Lite.LogSQL {
		tracer = sqltrace.New(s.Log, "sqlite")
	}
	l, err := lite.Open(ctx, lite.Config{
		Path:        cfg.Lite.Path,
		BusyTimeout: cfg.Lite.BusyTimeout,
		SlowMs:      cfg.Lite.SlowQueryMs,
	}, tracer)
	if err != nil {
		return nil, err
	}
	return newLiteAdapter(l), nil
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		Addr:        cfg.CH.Addr,
		Database:    cfg.CH.Database,
		Username:    cfg.CH.Username,
		Password:    cfg.CH.Password,
		DialTimeout: cfg.CH.DialTimeout,
		Role:        cfg.CH.Role,
		Tag:         cfg.AppName,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
