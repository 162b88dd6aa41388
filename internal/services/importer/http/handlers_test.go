package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	perr "locsync/internal/platform/errors"
	phttp "locsync/internal/platform/net/http"
	ptime "locsync/internal/platform/time"
	"locsync/internal/services/importer/domain"
	"locsync/internal/services/importer/service"

	"github.com/go-chi/chi/v5"
)

var now = time.Date(2020, time.April, 18, 12, 0, 0, 0, time.UTC)

type fakeImporter struct {
	paths []string
	res   service.Result
	err   error
}

func (f *fakeImporter) Import(_ context.Context, p string) (service.Result, error) {
	f.paths = append(f.paths, p)
	return f.res, f.err
}

type fakeReader struct {
	runs map[string]domain.Run
	last domain.ListQuery
}

func (f *fakeReader) GetRun(_ context.Context, id string) (domain.Run, error) {
	run, ok := f.runs[id]
	if !ok {
		return domain.Run{}, perr.NotFoundf("import run %s not found", id)
	}
	return run, nil
}

func (f *fakeReader) ListLocations(_ context.Context, q domain.ListQuery) ([]domain.Location, error) {
	f.last = q
	return []domain.Location{{Latitude: 1, Longitude: 2, Time: now}}, nil
}

func newServer(t *testing.T, imp *fakeImporter, rd *fakeReader) (*chi.Mux, string) {
	t.Helper()
	dir := t.TempDir()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), Deps{
		Importer:  imp,
		Reader:    rd,
		UploadDir: dir,
		MaxUpload: 1 << 20,
		Clock:     ptime.NewFixed(now),
	})
	return mux, dir
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestUpload(t *testing.T) {
	t.Parallel()

	imp := &fakeImporter{res: service.Result{
		ImportID: "run-1", FilesFound: 2, Parsed: 3,
		Inserted: []domain.Location{{Latitude: 1, Longitude: 2, Time: now}},
	}}
	mux, dir := newServer(t, imp, &fakeReader{})

	body, ctype := multipartBody(t, "archive", "takeout-20200418.ZIP", []byte("PK"))
	req := httptest.NewRequest(stdhttp.MethodPost, "/imports", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	data, _ := json.Marshal(env.Data)
	var out ImportResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.ImportID != "run-1" || out.FilesFound != 2 || len(out.Inserted) != 1 {
		t.Fatalf("response = %+v", out)
	}

	if len(imp.paths) != 1 {
		t.Fatalf("import calls = %v", imp.paths)
	}
	if b, err := os.ReadFile(imp.paths[0]); err != nil || string(b) != "PK" {
		t.Fatalf("stored upload = %q, %v", b, err)
	}
	if got := imp.paths[0]; len(got) <= len(dir) || got[:len(dir)] != dir {
		t.Fatalf("upload stored outside %s: %s", dir, got)
	}
}

func TestUpload_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		field    string
		filename string
		impErr   error
		status   int
		code     perr.ErrorCode
	}{
		{"wrong extension", "archive", "takeout.tar", nil, 415, perr.ErrorCodeInvalidFileExtension},
		{"missing field", "file", "takeout.zip", nil, 400, perr.ErrorCodeValidation},
		{"no recent data", "archive", "takeout.zip", domain.ErrNoRecentLocations, 422, perr.ErrorCodeNoRecentLocations},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			imp := &fakeImporter{err: tc.impErr}
			mux, _ := newServer(t, imp, &fakeReader{})

			body, ctype := multipartBody(t, tc.field, tc.filename, []byte("PK"))
			req := httptest.NewRequest(stdhttp.MethodPost, "/imports", body)
			req.Header.Set("Content-Type", ctype)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if env := decode(t, rec); env.Code != tc.code {
				t.Fatalf("code = %v, want %v", env.Code, tc.code)
			}
		})
	}
}

func TestGetRun(t *testing.T) {
	t.Parallel()

	rd := &fakeReader{runs: map[string]domain.Run{
		"run-1": {ID: "run-1", Status: domain.RunOK, StartedAt: now},
	}}
	mux, _ := newServer(t, &fakeImporter{}, rd)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/imports/run-1", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/imports/nope", nil))
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListLocations(t *testing.T) {
	t.Parallel()

	rd := &fakeReader{}
	mux, _ := newServer(t, &fakeImporter{}, rd)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/locations", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !rd.last.To.Equal(now) || !rd.last.From.Equal(now.AddDate(0, -2, 0)) || rd.last.Limit != 500 {
		t.Fatalf("default query = %+v", rd.last)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet,
		"/locations?from=2020-04-01T00:00:00Z&to=2020-04-02T00:00:00Z&limit=10", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !rd.last.From.Equal(time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)) || rd.last.Limit != 10 {
		t.Fatalf("query = %+v", rd.last)
	}

	for _, q := range []string{"limit=0x", "limit=9000", "from=yesterday", "from=2020-04-03T00:00:00Z&to=2020-04-02T00:00:00Z"} {
		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/locations?"+q, nil))
		if rec.Code != stdhttp.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}
