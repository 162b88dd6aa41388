package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"locsync/internal/core/takeout"
	kit "locsync/internal/platform/testkit"
)

func monthJSON(t *testing.T, locs ...takeout.Location) []byte {
	t.Helper()
	objs := make([]takeout.TimelineObject, 0, len(locs))
	for _, l := range locs {
		objs = append(objs, takeout.MakeTimelineObject(l))
	}
	b, err := takeout.Encode(objs...)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return b
}

func takeoutZip(t *testing.T) string {
	t.Helper()
	dir := takeout.HistoryDir + "/2020/"
	return kit.WriteZip(t, t.TempDir(), "takeout.zip", map[string][]byte{
		dir + "2020_MARCH.json": monthJSON(t, takeout.Location{
			Latitude: 51.5007, Longitude: -0.1246,
			Time:   time.Date(2020, 3, 2, 9, 0, 0, 0, time.UTC),
			Source: takeout.SourcePlaceVisit,
		}),
		dir + "2020_APRIL.json": monthJSON(t, takeout.Location{
			Latitude: 48.8584, Longitude: 2.2945,
			Time:   time.Date(2020, 4, 3, 9, 0, 0, 0, time.UTC),
			Source: takeout.SourcePlaceVisit,
		}),
	})
}

// isolate points the store, caches and temp dir at fresh directories
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("SERVICE_PGSQL_DBURL", "")
	t.Setenv("SERVICE_CLICKHOUSE_ADDR", "")
	t.Setenv("SERVICE_SQLITE_PATH", filepath.Join(t.TempDir(), "locsync.db"))
	t.Setenv("CORE_IMPORT_CACHES_DIR", t.TempDir())
	t.Setenv("CORE_IMPORT_PLATFORM", "")
	t.Setenv("TMPDIR", t.TempDir())
}

func TestRun(t *testing.T) {
	cases := []struct {
		name     string
		args     func(zip string) []string
		wantCode int
		wantErr  string
		keepZip  bool
		check    func(t *testing.T, stdout string)
	}{
		{
			name:     "missing archive",
			args:     func(string) []string { return nil },
			wantCode: exitUsage,
			wantErr:  "-archive is required",
			keepZip:  true,
		},
		{
			name:     "bad now",
			args:     func(zip string) []string { return []string{"-archive", zip, "-now", "18/04/2020"} },
			wantCode: exitUsage,
			wantErr:  "bad -now",
			keepZip:  true,
		},
		{
			name:     "unknown platform",
			args:     func(zip string) []string { return []string{"-archive", zip, "-platform", "web"} },
			wantCode: exitUsage,
			wantErr:  `bad -platform "web"`,
			keepZip:  true,
		},
		{
			name:     "unknown flag",
			args:     func(zip string) []string { return []string{"-archive", zip, "-verbose"} },
			wantCode: exitUsage,
			keepZip:  true,
		},
		{
			name:     "not a zip",
			args:     func(zip string) []string { return []string{"-archive", zip + ".tar"} },
			wantCode: exitError,
			wantErr:  ".zip file",
			keepZip:  true,
		},
		{
			name:     "today has no recent months",
			args:     func(zip string) []string { return []string{"-archive", zip, "-keep"} },
			wantCode: exitError,
			keepZip:  true,
		},
		{
			name: "fixed clock json and keep",
			args: func(zip string) []string {
				return []string{"-archive", zip, "-now", "2020-04-18", "-json", "-keep", "-platform", "Android"}
			},
			wantCode: exitOK,
			keepZip:  true,
			check: func(t *testing.T, stdout string) {
				var got []takeout.Location
				if err := json.Unmarshal([]byte(stdout), &got); err != nil {
					t.Fatalf("stdout is not json: %v\n%s", err, stdout)
				}
				if len(got) != 2 || got[0].Time.Month() != time.March || got[1].Time.Month() != time.April {
					t.Fatalf("records = %+v", got)
				}
				left, _ := filepath.Glob(filepath.Join(os.TempDir(), "locsync-*"))
				if len(left) != 0 {
					t.Fatalf("temporary copies left behind: %v", left)
				}
			},
		},
		{
			name:     "fixed clock text removes archive",
			args:     func(zip string) []string { return []string{"-archive", zip, "-now", "2020-04-18"} },
			wantCode: exitOK,
			keepZip:  false,
			check: func(t *testing.T, stdout string) {
				kit.MustContain(t, stdout, "2 month files, 2 records parsed, 2 new")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			zip := takeoutZip(t)

			var stdout, stderr bytes.Buffer
			err := run(t.Context(), tc.args(zip), &stdout, &stderr)

			if got := exitCode(err); got != tc.wantCode {
				t.Fatalf("exit code = %d, want %d (err=%v)", got, tc.wantCode, err)
			}
			if tc.wantErr != "" {
				kit.MustContain(t, err.Error(), tc.wantErr)
			}
			kit.MustExist(t, zip, tc.keepZip)
			if tc.check != nil {
				tc.check(t, stdout.String())
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{flag.ErrHelp, exitUsage},
		{usageError{errors.New("x")}, exitUsage},
		{errors.New("boom"), exitError},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
