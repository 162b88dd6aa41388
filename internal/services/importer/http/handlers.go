// Package http provides the import and history endpoints
package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"os"
	"path/filepath"
	"time"

	"locsync/internal/modkit/httpkit"
	perr "locsync/internal/platform/errors"
	"locsync/internal/platform/logger"
	pstrings "locsync/internal/platform/strings"
	ptime "locsync/internal/platform/time"
	"locsync/internal/services/importer/domain"
	"locsync/internal/services/importer/service"

	"github.com/google/uuid"
)

// Importer runs one import and reports its counters
type Importer interface {
	Import(ctx context.Context, archivePath string) (service.Result, error)
}

// Deps are the handler dependencies
type Deps struct {
	Importer  Importer
	Reader    domain.ReaderPort
	UploadDir string
	MaxUpload int64
	Clock     ptime.Clock
}

// Register mounts the importer routes
func Register(r httpkit.Router, d Deps) {
	if d.Clock == nil {
		d.Clock = ptime.System{}
	}
	if d.MaxUpload <= 0 {
		d.MaxUpload = 2 << 30
	}
	h := &handlers{deps: d}

	r.Post("/imports", httpkit.Handle(h.upload))
	httpkit.Get(r, "/imports/{id}", h.run)
	httpkit.GetQuery(r, "/locations", h.locations)
}

type handlers struct{ deps Deps }

// ImportResponse is returned after a successful import
type ImportResponse struct {
	ImportID   string            `json:"import_id"`
	FilesFound int               `json:"files_found"`
	Parsed     int               `json:"parsed"`
	Inserted   []domain.Location `json:"inserted"`
}

// LocationsQuery bounds a history read; times are RFC 3339
type LocationsQuery struct {
	From  string `query:"from"  validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To    string `query:"to"    validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=5000"`
}

// upload stores the multipart "archive" field under the upload dir and imports it
func (h *handlers) upload(r *stdhttp.Request) httpkit.Response {
	r.Body = stdhttp.MaxBytesReader(nil, r.Body, h.deps.MaxUpload)
	src, hdr, err := r.FormFile("archive")
	if err != nil {
		var tooBig *stdhttp.MaxBytesError
		if errors.As(err, &tooBig) {
			return httpkit.Error(perr.WithField(perr.InvalidArgf("archive exceeds %d bytes", tooBig.Limit), "archive"))
		}
		return httpkit.Error(perr.WithField(perr.Newf(perr.ErrorCodeValidation, "archive is required"), "archive"))
	}
	defer src.Close()

	if !pstrings.HasSuffixFold(hdr.Filename, ".zip") {
		return httpkit.Error(perr.WithField(domain.ErrInvalidFileExtension, "archive"))
	}

	dst, err := h.save(src)
	if err != nil {
		return httpkit.Error(err)
	}

	res, err := h.deps.Importer.Import(r.Context(), dst)
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Created(ImportResponse{
		ImportID:   res.ImportID,
		FilesFound: res.FilesFound,
		Parsed:     res.Parsed,
		Inserted:   res.Inserted,
	})
}

func (h *handlers) save(src io.Reader) (string, error) {
	if err := os.MkdirAll(h.deps.UploadDir, 0o755); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "prepare upload dir")
	}
	dst := filepath.Join(h.deps.UploadDir, uuid.NewString()+".zip")
	f, err := os.Create(dst)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "create upload")
	}
	_, err = io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		var tooBig *stdhttp.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", perr.WithField(perr.InvalidArgf("archive exceeds %d bytes", tooBig.Limit), "archive")
		}
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "store upload")
	}
	logger.Named("importer.http").Debug().Str("path", dst).Msg("upload stored")
	return dst, nil
}

func (h *handlers) run(r *stdhttp.Request) (any, error) {
	return h.deps.Reader.GetRun(r.Context(), httpkit.URLParam(r, "id"))
}

func (h *handlers) locations(r *stdhttp.Request, in LocationsQuery) (any, error) {
	to := h.deps.Clock.Now()
	if in.To != "" {
		to, _ = time.Parse(time.RFC3339, in.To)
	}
	from := to.AddDate(0, -2, 0)
	if in.From != "" {
		from, _ = time.Parse(time.RFC3339, in.From)
	}
	if !from.Before(to) {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "from must be before to"), "from")
	}
	limit := in.Limit
	if limit == 0 {
		limit = 500
	}
	return h.deps.Reader.ListLocations(r.Context(), domain.ListQuery{From: from, To: to, Limit: limit})
}
