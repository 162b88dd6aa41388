package takeout

import (
	"math"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/text/unicode/norm"
)

// Sources recorded on a Location
const (
	SourcePlaceVisit      = "place_visit"
	SourceActivitySegment = "activity_segment"
)

// world is the valid WGS84 range, lon first
var world = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// Location is one normalized location observation
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Time      time.Time `json:"time"`
	Source    string    `json:"source,omitempty"`
	PlaceID   string    `json:"place_id,omitempty"`
	Name      string    `json:"name,omitempty"`
}

// Point returns the coordinates as an orb point
func (l Location) Point() orb.Point { return orb.Point{l.Longitude, l.Latitude} }

// Valid reports whether the record has a timestamp and in-range coordinates
func (l Location) Valid() bool {
	if l.Time.IsZero() || math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return false
	}
	return world.Contains(l.Point())
}

// Key is the identity used for deduplication
type Key struct {
	TimeMs int64
	LatE7  int64
	LngE7  int64
}

// Key returns the dedup identity of l
func (l Location) Key() Key {
	return Key{TimeMs: l.Time.UnixMilli(), LatE7: E7(l.Latitude), LngE7: E7(l.Longitude)}
}

// E7 converts degrees to the integer E7 form used by the export
func E7(deg float64) int64 { return int64(math.Round(deg * 1e7)) }

// FromE7 converts an E7 integer back to degrees
func FromE7(v int64) float64 { return float64(v) / 1e7 }

// normalizeName trims and NFC-normalizes a place name
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
