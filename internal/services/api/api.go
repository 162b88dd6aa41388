// Package api provides the HTTP API for the application
package api

import (
	"locsync/internal/platform/config"
	phttp "locsync/internal/platform/net/http"
	"locsync/internal/platform/net/middleware"
	"locsync/internal/platform/store"

	"locsync/internal/modkit"
	"locsync/internal/modkit/httpkit"
	"locsync/internal/modkit/module"

	metamod "locsync/internal/services/api/meta/module"
	importmod "locsync/internal/services/importer/module"
)

// Options are the API options
type Options struct {
	// Config is the CORE_API_ view
	Config config.Conf
	Store  *store.Store

	// Deps overrides the deps built from Store, mostly for tests
	Deps *modkit.Deps
}

// Mount mounts the API onto r and returns the importer module so callers can migrate it
func Mount(r phttp.Router, opt Options) (*importmod.Module, error) {
	deps := modkit.Deps{Cfg: config.New()}.FromStore(opt.Store)
	if opt.Deps != nil {
		deps = *opt.Deps
	}

	imports, err := importmod.New(deps)
	if err != nil {
		return nil, err
	}

	mods := []module.Module{
		metamod.New(deps),
		imports,
	}

	r.Use(middleware.Heartbeat("/health"))
	phttp.MountProfiler(r, "/debug", opt.Config.MayBool("PROFILER", false))

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Config), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
	return imports, nil
}
