// Package takeout knows the layout of a Google Takeout export and converts
// Semantic Location History timeline objects into location records
package takeout

import (
	"strings"
	"time"

	ptime "locsync/internal/platform/time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HistoryDir is the month-file directory relative to the extraction root
const HistoryDir = "Takeout/Location History/Semantic Location History"

// FilenamesForLatest2Months returns the month files covering ref's month and the one before,
// older first. Months are calendar months in ref's location
func FilenamesForLatest2Months(basePath string, ref time.Time) [2]string {
	cur := ptime.MonthStart(ref)
	return [2]string{
		MonthFile(basePath, cur.AddDate(0, -1, 0)),
		MonthFile(basePath, cur),
	}
}

// MonthFile is the path of the month file holding month's timeline
func MonthFile(basePath string, month time.Time) string {
	year := month.Format("2006")
	name := year + "_" + cases.Upper(language.English).String(month.Month().String()) + ".json"
	return strings.TrimRight(basePath, "/") + "/" + HistoryDir + "/" + year + "/" + name
}
