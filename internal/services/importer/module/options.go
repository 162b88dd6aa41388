package module

import (
	"time"

	"locsync/internal/adapters/archive"
	"locsync/internal/platform/config"
)

// Options holds configuration for the importer module
type Options struct {
	CachesDir     string
	Platform      string
	Retention     time.Duration
	MaxEntries    int
	MaxBytes      int64
	UploadMax     int64
	Export        bool
	ExportTable   string
	ExportTimeout time.Duration
}

// FromConfig reads the importer options from config with CORE_IMPORT_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_IMPORT_")
	return Options{
		CachesDir:     c.MayString("CACHES_DIR", ""),
		Platform:      c.MayEnum("PLATFORM", "", "ios", "android"),
		Retention:     c.MayDuration("RETENTION", 0),
		MaxEntries:    c.MayInt("MAX_ENTRIES", archive.DefaultLimits.MaxEntries),
		MaxBytes:      c.MayInt64("MAX_BYTES", archive.DefaultLimits.MaxTotalBytes),
		UploadMax:     c.MayInt64("UPLOAD_MAX_BYTES", 2<<30),
		Export:        c.MayBool("EXPORT", true),
		ExportTable:   c.MayString("EXPORT_TABLE", ""),
		ExportTimeout: c.MayDuration("EXPORT_TIMEOUT", 30*time.Second),
	}
}
