// Package watch imports Takeout archives dropped into an inbox directory
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"locsync/internal/platform/logger"
	pstrings "locsync/internal/platform/strings"

	"github.com/fsnotify/fsnotify"
)

// Handler imports one archive; the watcher logs its error and moves on
type Handler func(ctx context.Context, path string) error

// Watcher monitors an inbox dir and hands each settled .zip to a Handler, one at a time
type Watcher struct {
	dir    string
	settle time.Duration
	handle Handler
	log    *logger.Logger

	mu     sync.Mutex
	queued map[string]bool
}

// New returns a watcher for dir. A file is handed off once it has seen no writes for settle
func New(dir string, settle time.Duration, h Handler) *Watcher {
	if settle <= 0 {
		settle = 2 * time.Second
	}
	return &Watcher{
		dir:    dir,
		settle: settle,
		handle: h,
		log:    logger.Named("watch"),
		queued: map[string]bool{},
	}
}

// Run watches until ctx is done. Archives already in the inbox are queued first
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return err
	}

	work := make(chan string, 64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx, work)
	}()
	defer wg.Wait()
	defer close(work)

	existing, err := w.Backfill()
	if err != nil {
		return err
	}
	for _, p := range existing {
		w.enqueue(ctx, work, p)
	}

	pending := map[string]time.Time{}
	tick := time.NewTicker(w.tickEvery())
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isZip(evt.Name) {
				continue
			}
			switch {
			case evt.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pending[evt.Name] = time.Now()
			case evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(pending, evt.Name)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Str("dir", w.dir).Msg("watcher error")
		case now := <-tick.C:
			for p, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, p)
				if _, err := os.Stat(p); err == nil {
					w.enqueue(ctx, work, p)
				}
			}
		}
	}
}

// minTick bounds how often pending files are rescanned
const minTick = 10 * time.Millisecond

func (w *Watcher) tickEvery() time.Duration { return max(w.settle/2, minTick) }

// Backfill lists the archives already present in the inbox, sorted by name
func (w *Watcher) Backfill() ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(w.dir, "*"))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if isZip(e) {
			out = append(out, e)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (w *Watcher) enqueue(ctx context.Context, work chan<- string, p string) {
	w.mu.Lock()
	if w.queued[p] {
		w.mu.Unlock()
		return
	}
	w.queued[p] = true
	w.mu.Unlock()

	select {
	case work <- p:
	case <-ctx.Done():
	}
}

func (w *Watcher) worker(ctx context.Context, work <-chan string) {
	for p := range work {
		if ctx.Err() != nil {
			continue
		}
		start := time.Now()
		if err := w.handle(ctx, p); err != nil {
			w.log.Error().Err(err).Str("archive", p).Msg("inbox import failed")
		} else {
			w.log.Info().Str("archive", p).Dur("elapsed", time.Since(start)).Msg("inbox import done")
		}
		w.mu.Lock()
		delete(w.queued, p)
		w.mu.Unlock()
	}
}

func isZip(p string) bool { return pstrings.HasSuffixFold(p, ".zip") }
