// Package domain holds the importer types, ports and sentinel errors
package domain

import (
	"time"

	"locsync/internal/core/takeout"
	perr "locsync/internal/platform/errors"
)

// Location is one normalized location record
type Location = takeout.Location

// Sentinel errors; match with errors.Is
var (
	ErrInvalidFileExtension = perr.New(perr.ErrorCodeInvalidFileExtension, "archive must be a .zip file")
	ErrNoRecentLocations    = perr.New(perr.ErrorCodeNoRecentLocations, "archive has no location history for the last two months")
)

// Run statuses
const (
	RunRunning = "running"
	RunOK      = "ok"
	RunFailed  = "error"
)

// Run is the bookkeeping row of one import
type Run struct {
	ID         string     `json:"id"`
	Archive    string     `json:"archive"`
	Status     string     `json:"status"`
	FilesFound int        `json:"files_found"`
	Parsed     int        `json:"parsed"`
	Inserted   int        `json:"inserted"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RunFinish carries the outcome written when a run ends
type RunFinish struct {
	Status     string
	FilesFound int
	Parsed     int
	Inserted   int
	ErrText    string
	FinishedAt time.Time
}

// ListQuery selects stored locations in [From, To), newest first
type ListQuery struct {
	From  time.Time
	To    time.Time
	Limit int
}
