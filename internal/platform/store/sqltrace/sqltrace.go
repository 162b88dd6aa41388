// Package sqltrace logs SQL statements issued through the store adapters
package sqltrace

import (
	"context"
	"strings"

	"locsync/internal/platform/logger"

	"github.com/rs/zerolog"
)

// Event describes one executed statement
type Event struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// Tracer receives one Event per statement
type Tracer interface {
	OnQuery(ctx context.Context, ev Event)
}

// New returns a Tracer that always prints SQL, independent of the process-wide root level.
// backend ends up in the component field ("pg", "sqlite")
func New(root logger.Logger, backend string) Tracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", backend).Logger()
	return &zlTracer{log: ll, msg: backend + " query"}
}

type zlTracer struct {
	log logger.Logger
	msg string
}

func (z *zlTracer) OnQuery(ctx context.Context, ev Event) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if id := logger.ImportID(ctx); id != "" {
		evt = evt.Str("import_id", id)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", Compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg(z.msg)
}

// Emitter times statements and forwards them to a Tracer. The zero value is a no-op
type Emitter struct {
	Tracer Tracer
	SlowUS int64 // negative disables the slow flag
}

// Emit reports a finished statement that started at start
func (e Emitter) Emit(ctx context.Context, sql string, args []any, elapsedUS int64, err error) {
	if e.Tracer == nil {
		return
	}
	e.Tracer.OnQuery(ctx, Event{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      e.SlowUS >= 0 && elapsedUS >= e.SlowUS,
	})
}

// Compact folds runs of whitespace into a single space
func Compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' || r == ' ' {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
