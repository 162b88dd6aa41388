// Command locsync-api serves the import and history HTTP API
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"locsync/internal/modkit/repokit"
	"locsync/internal/platform/config"
	"locsync/internal/platform/logger"
	phttp "locsync/internal/platform/net/http"
	"locsync/internal/platform/store"

	"locsync/internal/services/api"
)

func main() {
	opts := logger.FromEnv()
	opts.Component = "api"
	logger.Init(opts)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	st, err := store.Open(ctx, store.FromConfig(root, "locsync-api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	imports, err := api.Mount(srv.Router(), api.Options{Config: apiCfg, Store: st})
	if err != nil {
		l.Panic().Err(err).Msg("api mount failed")
	}
	if err := imports.Migrate(ctx); err != nil {
		l.Panic().Err(err).Msg("migrate failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
