package pg

import (
	"context"
	"errors"
	"testing"

	kit "locsync/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_BadURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_AppliesConfigAndMutator(t *testing.T) {
	kit.Serial(t)

	var seen *pgxpool.Config
	sentinel := errors.New("stop before dialing")
	kit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return nil, sentinel
	})

	mutated := false
	_, err := Open(context.Background(), Config{
		URL:      "postgres://u:p@localhost:5432/db",
		MaxConns: 3,
		AppName:  "locsync-test",
	}, nil, func(*pgxpool.Config) { mutated = true })

	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if !mutated {
		t.Fatalf("pool mutator not applied")
	}
	if seen.MaxConns != 3 {
		t.Fatalf("MaxConns = %d", seen.MaxConns)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "locsync-test" {
		t.Fatalf("application_name = %q", got)
	}
}

func TestEmitterAndCloseOnNil(t *testing.T) {
	var p *PG
	if em := p.Emitter(); em.Tracer != nil {
		t.Fatalf("nil PG should yield zero emitter")
	}
	p.Close()

	em := (&PG{SlowMs: 7}).Emitter()
	if em.SlowUS != 7000 {
		t.Fatalf("SlowUS = %d", em.SlowUS)
	}
}
