// Package module wires the importer into a mountable module
package module

import (
	"context"
	"net/http"
	"path/filepath"

	"locsync/internal/adapters/archive"
	"locsync/internal/adapters/export"
	"locsync/internal/adapters/fsys"
	"locsync/internal/modkit"
	"locsync/internal/modkit/httpkit"
	perr "locsync/internal/platform/errors"
	"locsync/internal/platform/logger"
	str "locsync/internal/platform/strings"

	"locsync/internal/services/importer/domain"
	importhttp "locsync/internal/services/importer/http"
	"locsync/internal/services/importer/repo"
	"locsync/internal/services/importer/service"
)

// UploadDirName is where the API stores uploads under the caches dir
const UploadDirName = "uploads"

// Ports defines the importer module ports
type Ports struct {
	Importer domain.ImporterPort
	Reader   domain.ReaderPort
}

// Module implements modkit.Module for imports
type Module struct {
	deps   modkit.Deps
	opts   Options
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	svc    *service.Service
	local  *repo.Local
	points *export.Points
	upload string
	ports  Ports
}

// New constructs the importer module from deps.Cfg (CORE_IMPORT_*).
// deps.SQL is required; deps.CH enables the analytics export
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	return NewWithOptions(deps, FromConfig(deps.Cfg), opts...)
}

// NewWithOptions is New with explicit options
func NewWithOptions(deps modkit.Deps, o Options, opts ...modkit.Option) (*Module, error) {
	if deps.SQL == nil {
		return nil, perr.WithOp(perr.InvalidArgf("importer requires a sql store"), "importer.module.New")
	}
	b := modkit.Build("imports", "", opts...)

	fs, err := fsys.New(o.CachesDir)
	if err != nil {
		return nil, err
	}
	clock := deps.Now()
	local := repo.NewLocal(deps.SQL, clock, o.Retention)
	zip := archive.NewZip(archive.Limits{MaxEntries: o.MaxEntries, MaxTotalBytes: o.MaxBytes})

	svc := service.New(zip, fs, local, clock, service.Config{
		Platform:      o.Platform,
		ExportTimeout: o.ExportTimeout,
	}).WithRunLog(local)

	m := &Module{
		deps:   deps,
		opts:   o,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
		local:  local,
		upload: filepath.Join(fs.CachesDir(), UploadDirName),
	}
	if o.Export && deps.CH != nil {
		m.points = export.New(deps.CH, o.ExportTable)
		svc.WithExporter(m.points)
	}
	m.ports = Ports{Importer: svc, Reader: local}

	logger.Named("importer").Debug().
		Str("caches_dir", fs.CachesDir()).
		Str("dialect", string(deps.Dialect)).
		Bool("export", m.points != nil).
		Msg("importer module ready")
	return m, nil
}

// Migrate creates the local store schema and, with export enabled, the analytics table
func (m *Module) Migrate(ctx context.Context) error {
	if err := repo.Migrate(ctx, m.deps.SQL); err != nil {
		return err
	}
	if m.points != nil {
		return m.points.Migrate(ctx)
	}
	return nil
}

// Service returns the import service
func (m *Module) Service() *service.Service { return m.svc }

// MountRoutes mounts the import and history endpoints, under Prefix when one was set
func (m *Module) MountRoutes(r httpkit.Router) {
	mount := func(rr httpkit.Router) {
		importhttp.Register(rr, importhttp.Deps{
			Importer:  m.svc,
			Reader:    m.local,
			UploadDir: m.upload,
			MaxUpload: m.opts.UploadMax,
			Clock:     m.deps.Now(),
		})
	}
	if m.prefix == "" {
		r.Group(func(rr httpkit.Router) {
			if len(m.mws) > 0 {
				rr.Use(m.mws...)
			}
			mount(rr)
		})
		return
	}
	httpkit.MountUnder(r, str.MustPrefix(m.prefix), m.mws, mount)
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "imports") }

// Prefix returns the mount prefix, "/" when routes sit at the API root
func (m *Module) Prefix() string {
	if m.prefix == "" {
		return "/"
	}
	return str.MustPrefix(m.prefix)
}

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
