// Package service implements the Takeout import flow
package service

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"locsync/internal/core/takeout"
	perr "locsync/internal/platform/errors"
	"locsync/internal/platform/logger"
	pstrings "locsync/internal/platform/strings"
	ptime "locsync/internal/platform/time"
	"locsync/internal/services/importer/domain"

	"github.com/google/uuid"
)

// WorkDirName is the extraction directory under the caches dir
const WorkDirName = "Takeout"

// PlatformIOS selects percent-decoding of file:// archive paths
const PlatformIOS = "ios"

// Config holds importer settings
type Config struct {
	// Platform the archive path came from, only used to normalize the path
	Platform string

	// ExportTimeout bounds the optional analytics export; <=0 -> 30s
	ExportTimeout time.Duration
}

// Service runs imports. Imports share one working directory and are serialized
type Service struct {
	Extract domain.Extractor
	FS      domain.FileSystem
	Store   domain.LocalStore
	Clock   ptime.Clock
	Cfg     Config

	// optional collaborators, nil disables them
	Runs   domain.RunLog
	Export domain.Exporter

	mu sync.Mutex
}

// New constructs the import service
func New(ex domain.Extractor, fs domain.FileSystem, st domain.LocalStore, clock ptime.Clock, cfg Config) *Service {
	if ex == nil || fs == nil || st == nil {
		panic("importer.Service requires an Extractor, FileSystem and LocalStore")
	}
	if clock == nil {
		clock = ptime.System{}
	}
	return &Service{Extract: ex, FS: fs, Store: st, Clock: clock, Cfg: cfg}
}

// WithRunLog records every import in runs
func (s *Service) WithRunLog(runs domain.RunLog) *Service {
	s.Runs = runs
	return s
}

// WithExporter ships new records to ex after each successful import
func (s *Service) WithExporter(ex domain.Exporter) *Service {
	s.Export = ex
	return s
}

// Result is what one import produced
type Result struct {
	ImportID   string
	Inserted   []domain.Location
	FilesFound int
	Parsed     int
}

// ImportTakeoutData imports the last two months of location history from the archive at archivePath
// and returns the records that were new to the local store, older month first
func (s *Service) ImportTakeoutData(ctx context.Context, archivePath string) ([]domain.Location, error) {
	res, err := s.Import(ctx, archivePath)
	if err != nil {
		return nil, err
	}
	return res.Inserted, nil
}

// Import is ImportTakeoutData with the run id and counters
func (s *Service) Import(ctx context.Context, archivePath string) (Result, error) {
	path := NormalizeArchivePath(archivePath, s.Cfg.Platform)
	if !pstrings.HasSuffixFold(pstrings.LastSegment(path), ".zip") {
		return Result{}, domain.ErrInvalidFileExtension
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{ImportID: uuid.NewString(), Inserted: []domain.Location{}}
	ctx = logger.WithImport(ctx, res.ImportID)
	log := logger.C(ctx)
	start := time.Now()

	log.Info().Str("archive", path).Str("platform", s.Cfg.Platform).Msg("import started")
	s.startRun(ctx, res.ImportID, path)

	workDir := filepath.Join(s.FS.CachesDir(), WorkDirName)
	defer s.cleanup(ctx, workDir, path)

	err := s.run(ctx, path, workDir, &res)
	s.finishRun(ctx, res, err)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("import failed")
		return Result{}, err
	}

	s.export(ctx, res)
	log.Info().
		Int("files_found", res.FilesFound).
		Int("parsed", res.Parsed).
		Int("new", len(res.Inserted)).
		Dur("elapsed", time.Since(start)).
		Msg("import done")
	return res, nil
}

func (s *Service) run(ctx context.Context, archive, workDir string, res *Result) error {
	log := logger.C(ctx)

	root, err := s.Extract.Unzip(ctx, archive, workDir, func(done, total int) {
		log.Debug().Int("done", done).Int("total", total).Msg("extract progress")
	})
	if err != nil {
		return err
	}
	if root == "" {
		root = workDir
	}

	for _, f := range takeout.FilenamesForLatest2Months(root, s.Clock.Now()) {
		ok, err := s.FS.Exists(ctx, f)
		if err != nil {
			return err
		}
		if !ok {
			log.Debug().Str("file", f).Bool("present", false).Msg("month file")
			continue
		}
		res.FilesFound++

		data, err := s.FS.ReadFile(ctx, f)
		if err != nil {
			return err
		}
		doc, err := takeout.Parse(data)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeJSON, "parse %s", f)
		}
		locs, skipped := takeout.Locations(doc)
		res.Parsed += len(locs)

		added, err := s.Store.MergeWithLocalData(ctx, locs)
		if err != nil {
			return err
		}
		res.Inserted = append(res.Inserted, added...)

		log.Info().
			Str("file", f).
			Bool("present", true).
			Int("parsed", len(locs)).
			Int("skipped", skipped).
			Int("new", len(added)).
			Msg("month file")
	}

	if res.FilesFound == 0 {
		return domain.ErrNoRecentLocations
	}
	return nil
}

// cleanup removes the working dir and the archive; failures are only logged
func (s *Service) cleanup(ctx context.Context, workDir, archive string) {
	ctx = context.WithoutCancel(ctx)
	log := logger.C(ctx)
	for _, p := range []string{workDir, archive} {
		if err := s.FS.Remove(ctx, p); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("cleanup failed")
		}
	}
}

func (s *Service) startRun(ctx context.Context, id, archive string) {
	if s.Runs == nil {
		return
	}
	if err := s.Runs.StartRun(ctx, id, archive, s.Clock.Now()); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("record run start")
	}
}

func (s *Service) finishRun(ctx context.Context, res Result, runErr error) {
	if s.Runs == nil {
		return
	}
	fin := domain.RunFinish{
		Status:     domain.RunOK,
		FilesFound: res.FilesFound,
		Parsed:     res.Parsed,
		Inserted:   len(res.Inserted),
		FinishedAt: s.Clock.Now(),
	}
	if runErr != nil {
		fin.Status = domain.RunFailed
		fin.ErrText = runErr.Error()
	}
	if err := s.Runs.FinishRun(context.WithoutCancel(ctx), res.ImportID, fin); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("record run finish")
	}
}

func (s *Service) export(ctx context.Context, res Result) {
	if s.Export == nil || len(res.Inserted) == 0 {
		return
	}
	timeout := s.Cfg.ExportTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.Export.Export(ctx, res.ImportID, res.Inserted); err != nil {
		logger.C(ctx).Warn().Err(err).Int("rows", len(res.Inserted)).Msg("analytics export failed")
	}
}

// NormalizeArchivePath strips a file:// scheme. On iOS the remainder is percent-decoded
func NormalizeArchivePath(p, platform string) string {
	rest, ok := strings.CutPrefix(p, "file://")
	if !ok {
		return p
	}
	if strings.EqualFold(platform, PlatformIOS) {
		if dec, err := url.PathUnescape(rest); err == nil {
			return dec
		}
	}
	return rest
}
