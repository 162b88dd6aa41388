package fsys

import (
	"os"
	"path/filepath"
	"testing"

	kit "locsync/internal/platform/testkit"
)

func TestOS_RoundTrip(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "caches")
	o, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if o.CachesDir() != root {
		t.Fatalf("CachesDir = %q", o.CachesDir())
	}
	kit.MustExist(t, root, true)

	ctx := t.Context()
	p := filepath.Join(root, "Takeout", "a.json")
	if ok, err := o.Exists(ctx, p); ok || err != nil {
		t.Fatalf("Exists before write = %v, %v", ok, err)
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, err := o.Exists(ctx, p); !ok || err != nil {
		t.Fatalf("Exists after write = %v, %v", ok, err)
	}
	if b, err := o.ReadFile(ctx, p); err != nil || string(b) != "{}" {
		t.Fatalf("ReadFile = %q, %v", b, err)
	}

	if err := o.Remove(ctx, filepath.Join(root, "Takeout")); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
	kit.MustExist(t, p, false)
	if err := o.Remove(ctx, filepath.Join(root, "missing")); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}
