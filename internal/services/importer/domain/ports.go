package domain

import (
	"context"
	"time"
)

// ImporterPort is the public port other modules and binaries call
type ImporterPort interface {
	ImportTakeoutData(ctx context.Context, archivePath string) ([]Location, error)
}

// ReaderPort exposes stored data to the HTTP layer
type ReaderPort interface {
	GetRun(ctx context.Context, id string) (Run, error)
	ListLocations(ctx context.Context, q ListQuery) ([]Location, error)
}

// Extractor unpacks an archive into destDir and returns the extraction root.
// progress may be nil
type Extractor interface {
	Unzip(ctx context.Context, archivePath, destDir string, progress func(done, total int)) (string, error)
}

// FileSystem is the slice of the local filesystem the importer touches
type FileSystem interface {
	Exists(ctx context.Context, path string) (bool, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
	CachesDir() string
}

// LocalStore merges a batch into local history and returns the records it had not seen
type LocalStore interface {
	MergeWithLocalData(ctx context.Context, locs []Location) ([]Location, error)
}

// RunLog records import runs
type RunLog interface {
	StartRun(ctx context.Context, id, archive string, at time.Time) error
	FinishRun(ctx context.Context, id string, fin RunFinish) error
}

// Exporter ships newly inserted records elsewhere after an import
type Exporter interface {
	Export(ctx context.Context, importID string, locs []Location) error
}

// StorageRepo is the sql repository bound to a single Queryer
type StorageRepo interface {
	InsertLocations(ctx context.Context, importID string, locs []Location, at time.Time) ([]Location, error)
	StartRun(ctx context.Context, id, archive string, at time.Time) error
	FinishRun(ctx context.Context, id string, fin RunFinish) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListLocations(ctx context.Context, q ListQuery) ([]Location, error)
}
