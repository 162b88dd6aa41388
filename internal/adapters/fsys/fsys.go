// Package fsys is the local filesystem seen by the importer
package fsys

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// OS implements the importer FileSystem on the host filesystem
type OS struct {
	caches string
}

// New returns an OS rooted at cachesDir; empty selects the user cache dir under "locsync"
func New(cachesDir string) (*OS, error) {
	if cachesDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		cachesDir = filepath.Join(base, "locsync")
	}
	if err := os.MkdirAll(cachesDir, 0o755); err != nil {
		return nil, err
	}
	return &OS{caches: cachesDir}, nil
}

// CachesDir is the scratch directory imports extract into
func (o *OS) CachesDir() string { return o.caches }

// Exists reports whether path exists; permission and io failures are returned
func (o *OS) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// ReadFile reads the whole file
func (o *OS) ReadFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Remove deletes path recursively; a missing path is not an error
func (o *OS) Remove(_ context.Context, path string) error {
	return os.RemoveAll(path)
}
