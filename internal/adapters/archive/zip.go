// Package archive extracts uploaded Takeout archives onto local disk
package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	perr "locsync/internal/platform/errors"

	"github.com/klauspost/compress/zip"
)

// Progress is called after each extracted entry with the running and total entry counts
type Progress = func(done, total int)

// Limits bound what a single archive may expand to; zero disables a limit
type Limits struct {
	MaxEntries    int
	MaxTotalBytes int64
}

// DefaultLimits fit a multi-year Takeout export with room to spare
var DefaultLimits = Limits{MaxEntries: 200_000, MaxTotalBytes: 8 << 30}

// Zip extracts zip archives
type Zip struct {
	Limits Limits
}

// NewZip returns a Zip extractor with the given limits
func NewZip(l Limits) *Zip { return &Zip{Limits: l} }

// Unzip extracts archivePath into destDir and returns destDir.
// Entries escaping destDir, symlinks, and archives over the limits fail with an archive error
func (z *Zip) Unzip(ctx context.Context, archivePath, destDir string, progress Progress) (string, error) {
	const op = "archive.Unzip"

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", perr.WithOp(perr.Wrapf(err, perr.ErrorCodeArchive, "open %s", archivePath), op)
	}
	defer zr.Close()

	total := len(zr.File)
	if z.Limits.MaxEntries > 0 && total > z.Limits.MaxEntries {
		return "", perr.WithOp(perr.Archivef("%d entries exceeds limit %d", total, z.Limits.MaxEntries), op)
	}

	root, err := filepath.Abs(destDir)
	if err != nil {
		return "", perr.WithOp(perr.Wrapf(err, perr.ErrorCodeArchive, "resolve %s", destDir), op)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", perr.WithOp(perr.Wrapf(err, perr.ErrorCodeArchive, "create %s", root), op)
	}

	var written int64
	for i, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		target, err := entryPath(root, f.Name)
		if err != nil {
			return "", err
		}
		switch {
		case f.FileInfo().IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", perr.WithOp(perr.Wrapf(err, perr.ErrorCodeArchive, "mkdir %s", f.Name), op)
			}
		case f.Mode()&os.ModeSymlink != 0:
			return "", perr.WithOp(perr.Archivef("symlink entry %q not allowed", f.Name), op)
		default:
			n, err := z.extractFile(f, target, written)
			if err != nil {
				return "", err
			}
			written += n
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	return destDir, nil
}

func (z *Zip) extractFile(f *zip.File, target string, written int64) (int64, error) {
	const op = "archive.Unzip"

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeArchive, "mkdir for %s", f.Name), op)
	}
	src, err := f.Open()
	if err != nil {
		return 0, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeArchive, "open entry %s", f.Name), op)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeArchive, "create %s", f.Name), op)
	}

	var r io.Reader = src
	if limit := z.Limits.MaxTotalBytes; limit > 0 {
		r = io.LimitReader(src, limit-written+1)
	}
	n, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeArchive, "write %s", f.Name), op)
	}
	if limit := z.Limits.MaxTotalBytes; limit > 0 && written+n > limit {
		return n, perr.WithOp(perr.Archivef("archive expands past %d bytes", limit), op)
	}
	return n, nil
}

// entryPath joins name under root, rejecting absolute names and names that climb out of root
func entryPath(root, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", perr.WithOp(perr.Archivef("entry %q escapes extraction dir", name), "archive.Unzip")
	}
	target := filepath.Join(root, clean)
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", perr.WithOp(perr.Archivef("entry %q escapes extraction dir", name), "archive.Unzip")
	}
	return target, nil
}
