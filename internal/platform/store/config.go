package store

import (
	"time"

	"locsync/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG   PGConfig
	Lite LiteConfig
	CH   CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// LiteConfig configures the embedded sqlite database
type LiteConfig struct {
	Enabled     bool
	Path        string
	BusyTimeout time.Duration
	LogSQL      bool
	SlowQueryMs int
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled     bool
	Addr        []string
	Database    string
	Username    string
	Password    string
	DialTimeout time.Duration
	Role        string
}

// FromConfig reads backend settings from SERVICE_PGSQL_*, SERVICE_SQLITE_* and SERVICE_CLICKHOUSE_*.
// Postgres is used when SERVICE_PGSQL_DBURL is set, sqlite otherwise.
// Clickhouse is enabled when SERVICE_CLICKHOUSE_ADDR lists at least one host
func FromConfig(root config.Conf, appName string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	lite := root.Prefix("SERVICE_SQLITE_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")

	cfg := Config{AppName: appName}
	if url := pg.MayString("DBURL", ""); url != "" {
		cfg.PG = PGConfig{
			Enabled:     true,
			URL:         url,
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		}
	} else {
		cfg.Lite = LiteConfig{
			Enabled:     true,
			Path:        lite.MayString("PATH", "locsync.db"),
			BusyTimeout: lite.MayDuration("BUSY_TIMEOUT", 5*time.Second),
			SlowQueryMs: lite.MayInt("SLOW_MS", 200),
			LogSQL:      lite.MayBool("LOG_SQL", false),
		}
	}
	if addr := ch.MayCSV("ADDR", nil); len(addr) > 0 {
		cfg.CH = CHConfig{
			Enabled:     true,
			Addr:        addr,
			Database:    ch.MayString("DATABASE", "default"),
			Username:    ch.MayString("USERNAME", "default"),
			Password:    ch.MayString("PASSWORD", ""),
			DialTimeout: ch.MayDuration("DIAL_TIMEOUT", 5*time.Second),
			Role:        ch.MayString("ROLE", ""),
		}
	}
	return cfg
}
