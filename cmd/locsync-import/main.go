// Command locsync-import imports the last two months of location history from a Takeout archive.
// The archive is removed after the import unless -keep is set
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"locsync/internal/modkit"
	"locsync/internal/platform/config"
	"locsync/internal/platform/logger"
	"locsync/internal/platform/store"
	pstrings "locsync/internal/platform/strings"
	ptime "locsync/internal/platform/time"

	importmod "locsync/internal/services/importer/module"
	"locsync/internal/services/importer/service"

	"github.com/google/uuid"
)

// exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var platforms = []string{service.PlatformIOS, "android"}

// usageError marks bad flags; main exits with exitUsage for it
type usageError struct{ error }

func main() {
	opts := logger.FromEnv()
	opts.Component = "import"
	logger.Init(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "locsync-import:", err)
	}
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp), errors.As(err, &ue):
		return exitUsage
	default:
		return exitError
	}
}

type flags struct {
	archive  string
	platform string
	asJSON   bool
	keep     bool
	now      time.Time
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var (
		f   flags
		now string
	)
	fs := flag.NewFlagSet("locsync-import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.archive, "archive", "", "path or file:// uri of the Takeout .zip (required)")
	fs.StringVar(&now, "now", "", "reference date YYYY-MM-DD instead of today (UTC)")
	fs.StringVar(&f.platform, "platform", "", "platform the path came from: "+strings.Join(platforms, " | "))
	fs.BoolVar(&f.asJSON, "json", false, "print the new records as JSON on stdout")
	fs.BoolVar(&f.keep, "keep", false, "import a copy so the archive itself is left in place")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return f, err
		}
		return f, usageError{err}
	}

	if f.archive == "" {
		fs.Usage()
		return f, usageError{errors.New("-archive is required")}
	}
	if f.platform != "" {
		f.platform = strings.ToLower(f.platform)
		if !slices.Contains(platforms, f.platform) {
			return f, usageError{fmt.Errorf("bad -platform %q: want one of %s", f.platform, strings.Join(platforms, ", "))}
		}
	}
	if now != "" {
		t, err := time.Parse("2006-01-02", now)
		if err != nil {
			return f, usageError{fmt.Errorf("bad -now: %w", err)}
		}
		f.now = t.UTC()
	}
	return f, nil
}

// run executes one import described by args, writing results to stdout
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	l := logger.Get()

	root := config.New()
	st, err := store.Open(ctx, store.FromConfig(root, "locsync-import"), store.WithLogger(*l))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Cfg: root}.FromStore(st)
	if !f.now.IsZero() {
		deps.Clock = ptime.NewFixed(f.now)
	}

	opts := importmod.FromConfig(root)
	if f.platform != "" {
		opts.Platform = f.platform
	}
	mod, err := importmod.NewWithOptions(deps, opts)
	if err != nil {
		return err
	}
	if err := mod.Migrate(ctx); err != nil {
		return err
	}

	archive := f.archive
	if f.keep {
		path := service.NormalizeArchivePath(archive, opts.Platform)
		if pstrings.HasSuffixFold(path, ".zip") {
			if archive, err = copyArchive(path, os.TempDir()); err != nil {
				return err
			}
		}
	}

	res, err := mod.Service().Import(ctx, archive)
	if err != nil {
		return err
	}

	if f.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Inserted)
	}
	_, err = fmt.Fprintf(stdout, "import %s: %d month files, %d records parsed, %d new\n",
		res.ImportID, res.FilesFound, res.Parsed, len(res.Inserted))
	return err
}

// copyArchive copies src into dir under a fresh name keeping its extension
func copyArchive(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dst := filepath.Join(dir, "locsync-"+uuid.NewString()+filepath.Ext(src))
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	return dst, out.Close()
}
