// Command locsync-watch imports every Takeout archive dropped into an inbox directory
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"locsync/internal/adapters/watch"
	"locsync/internal/modkit"
	"locsync/internal/modkit/module"
	"locsync/internal/modkit/repokit"
	"locsync/internal/platform/config"
	"locsync/internal/platform/logger"
	"locsync/internal/platform/store"

	"locsync/internal/services/importer/domain"
	importmod "locsync/internal/services/importer/module"
)

func main() {
	opts := logger.FromEnv()
	opts.Component = "watch"
	logger.Init(opts)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	wc := root.Prefix("CORE_WATCH_")
	inbox := wc.MustDir("INBOX")
	settle := wc.MayDuration("SETTLE", 2*time.Second)

	st, err := store.Open(ctx, store.FromConfig(root, "locsync-watch"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	mod, err := importmod.New(modkit.Deps{Cfg: root}.FromStore(st))
	if err != nil {
		l.Fatal().Err(err).Msg("importer init failed")
	}
	if err := mod.Migrate(ctx); err != nil {
		l.Fatal().Err(err).Msg("migrate failed")
	}
	module.Register(mod.Name(), mod.Ports())
	importer := module.MustPortsOf[domain.ImporterPort](mod)

	w := watch.New(inbox, settle, func(ctx context.Context, path string) error {
		inserted, err := importer.ImportTakeoutData(ctx, path)
		switch {
		case errors.Is(err, domain.ErrNoRecentLocations):
			logger.C(ctx).Warn().Str("archive", path).Msg("archive has no recent months, skipped")
			return nil
		case err != nil:
			return err
		}
		logger.C(ctx).Info().
			Str("archive", path).
			Int("new", len(inserted)).
			Msg("inbox archive imported")
		return nil
	})

	l.Info().Str("inbox", inbox).Dur("settle", settle).Msg("watching inbox")
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		l.Fatal().Err(err).Msg("watcher stopped")
	}
}
