package testkit

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() {
		panic("boom")
	})
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()

	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()

	MustContain(t, "alpha beta gamma", "beta")
}

func TestMustExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "f")
	MustExist(t, p, false)
	if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	MustExist(t, p, true)
}

func TestWriteZip(t *testing.T) {
	t.Parallel()

	p := WriteZip(t, t.TempDir(), "a.zip", map[string][]byte{
		"b/two.txt": []byte("2"),
		"one.txt":   []byte("1"),
	})

	zr, err := zip.OpenReader(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 2 || zr.File[0].Name != "b/two.txt" || zr.File[1].Name != "one.txt" {
		t.Fatalf("unexpected entries: %v", zr.File)
	}
	rc, err := zr.File[1].Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "1" {
		t.Fatalf("content = %q", b)
	}
}
