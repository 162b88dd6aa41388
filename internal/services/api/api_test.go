package api

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"locsync/internal/modkit/module"
	"locsync/internal/platform/config"
	phttp "locsync/internal/platform/net/http"
	"locsync/internal/platform/store"
	kit "locsync/internal/platform/testkit"
	"locsync/internal/services/importer/domain"

	"github.com/go-chi/chi/v5"
)

func TestMount(t *testing.T) {
	kit.Serial(t)
	module.Reset()
	t.Cleanup(module.Reset)
	t.Setenv("CORE_IMPORT_CACHES_DIR", t.TempDir())

	st, err := store.Open(t.Context(), store.Config{
		Lite: store.LiteConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "api.db")},
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	mux := chi.NewRouter()
	imports, err := Mount(phttp.AdaptChi(mux), Options{Config: config.New().Prefix("TEST_API_"), Store: st})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := imports.Migrate(t.Context()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{stdhttp.MethodGet, "/health", stdhttp.StatusOK},
		{stdhttp.MethodGet, "/api/v1/meta/ready", stdhttp.StatusOK},
		{stdhttp.MethodGet, "/api/v1/locations", stdhttp.StatusOK},
		{stdhttp.MethodGet, "/api/v1/imports/nope", stdhttp.StatusNotFound},
		{stdhttp.MethodGet, "/debug/pprof/", stdhttp.StatusNotFound},
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s %s = %d, want %d (%s)", tc.method, tc.path, rec.Code, tc.want, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/api/v1/meta/service", nil))
	kit.MustContain(t, rec.Body.String(), `"modules":["imports","meta"]`)

	if module.MustPortsOf[domain.ImporterPort](imports) == nil {
		t.Fatal("importer port missing")
	}
}
