package strings

import (
	"testing"

	kit "locsync/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	if got := IfEmpty([]int{1, 2, 3}, []int{9}); len(got) != 3 || got[0] != 1 {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}
	if got := IfEmpty(nil, []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %#v", got)
	}
}

func TestHasSuffixFold(t *testing.T) {
	t.Parallel()

	cases := []struct {
		s, suf string
		want   bool
	}{
		{"takeout.zip", ".zip", true},
		{"TAKEOUT.ZIP", ".zip", true},
		{"takeout.Zip", ".zip", true},
		{"takeout.tar", ".zip", false},
		{"zip", ".zip", false},
		{"", ".zip", false},
		{"a.zip.tar", ".zip", false},
	}
	for _, c := range cases {
		if got := HasSuffixFold(c.s, c.suf); got != c.want {
			t.Fatalf("HasSuffixFold(%q,%q) = %v, want %v", c.s, c.suf, got, c.want)
		}
	}
}

func TestMustStringAndPrefix(t *testing.T) {
	t.Parallel()

	kit.MustPanic(t, func() { MustString("  ", "archive") })
	if MustString("x", "archive") != "x" {
		t.Fatalf("MustString changed input")
	}

	if got := MustPrefix(" api/v1/ "); got != "/api/v1" {
		t.Fatalf("MustPrefix = %q", got)
	}
	kit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestLastSegment(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/var/inbox/takeout.zip": "takeout.zip",
		"takeout.zip":            "takeout.zip",
		"/dir/":                  "",
	}
	for in, want := range cases {
		if got := LastSegment(in); got != want {
			t.Fatalf("LastSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
