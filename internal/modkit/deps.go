// Package modkit provides module wiring and core deps
package modkit

import (
	"locsync/internal/modkit/repokit"
	"locsync/internal/platform/config"
	"locsync/internal/platform/logger"
	"locsync/internal/platform/store"
	ptime "locsync/internal/platform/time"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	SQL     repokit.TxRunner
	Dialect store.Dialect
	CH      store.Clickhouse
	Clock   ptime.Clock
}

// FromStore fills the storage fields from an opened Store
// a store without a sql backend leaves SQL nil
func (d Deps) FromStore(st *store.Store) Deps {
	if st == nil {
		return d
	}
	if q, dialect, err := st.SQL(); err == nil {
		d.SQL, d.Dialect = q, dialect
	}
	d.CH = st.CH
	return d
}

// Now returns the injected clock or the system clock
func (d Deps) Now() ptime.Clock {
	if d.Clock == nil {
		return ptime.System{}
	}
	return d.Clock
}
