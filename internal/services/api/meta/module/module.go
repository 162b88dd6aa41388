// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"locsync/internal/modkit"
	"locsync/internal/modkit/httpkit"
	"locsync/internal/modkit/module"
	str "locsync/internal/platform/strings"

	metahttp "locsync/internal/services/api/meta/http"
)

// ServiceName is reported by the meta endpoints
const ServiceName = "locsync-api"

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("meta", "/meta", opts...)
	return &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		startedAt: deps.Now().Now(),
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	d := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   m.startedAt,
		Dialect:     string(m.deps.Dialect),
		Clock:       m.deps.Now(),
		Modules:     module.Registered,
	}
	if m.deps.SQL != nil {
		d.SQL = m.deps.SQL
	}
	if m.deps.CH != nil {
		d.CH = m.deps.CH
	}
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		metahttp.Register(rr, d)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix returns the mount prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
