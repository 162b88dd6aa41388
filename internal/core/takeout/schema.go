package takeout

import (
	"encoding/json"
	"strconv"
	"time"
)

// Document is a parsed month file
type Document struct {
	TimelineObjects []TimelineObject `json:"timelineObjects"`

	// Malformed counts entries that were not decodable objects
	Malformed int `json:"-"`
}

// TimelineObject is one entry of timelineObjects; exactly one member is set in practice
type TimelineObject struct {
	PlaceVisit      *PlaceVisit      `json:"placeVisit,omitempty"`
	ActivitySegment *ActivitySegment `json:"activitySegment,omitempty"`
}

// PlaceVisit is a stay at a place
type PlaceVisit struct {
	Location    *Place   `json:"location,omitempty"`
	Duration    Duration `json:"duration"`
	CenterLatE7 *int64   `json:"centerLatE7,omitempty"`
	CenterLngE7 *int64   `json:"centerLngE7,omitempty"`
}

// ActivitySegment is movement between two places
type ActivitySegment struct {
	StartLocation *Place   `json:"startLocation,omitempty"`
	EndLocation   *Place   `json:"endLocation,omitempty"`
	Duration      Duration `json:"duration"`
	ActivityType  string   `json:"activityType,omitempty"`
}

// Place is a coordinate pair with optional place metadata
type Place struct {
	LatitudeE7  *int64 `json:"latitudeE7,omitempty"`
	LongitudeE7 *int64 `json:"longitudeE7,omitempty"`
	PlaceID     string `json:"placeId,omitempty"`
	Name        string `json:"name,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Duration carries start and end either as epoch ms strings (older exports)
// or RFC 3339 timestamps (newer exports)
type Duration struct {
	StartTimestampMs string `json:"startTimestampMs,omitempty"`
	EndTimestampMs   string `json:"endTimestampMs,omitempty"`
	StartTimestamp   string `json:"startTimestamp,omitempty"`
	EndTimestamp     string `json:"endTimestamp,omitempty"`
}

// Start returns the start instant in UTC, false when absent or unparseable
func (d Duration) Start() (time.Time, bool) {
	if d.StartTimestampMs != "" {
		ms, err := strconv.ParseInt(d.StartTimestampMs, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	}
	if d.StartTimestamp != "" {
		t, err := time.Parse(time.RFC3339Nano, d.StartTimestamp)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}
	return time.Time{}, false
}

// Parse decodes a month file. The top level must be a JSON object; entries of
// timelineObjects that fail to decode are counted in Malformed and dropped
func Parse(data []byte) (Document, error) {
	var raw struct {
		TimelineObjects []json.RawMessage `json:"timelineObjects"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, err
	}
	doc := Document{TimelineObjects: make([]TimelineObject, 0, len(raw.TimelineObjects))}
	for _, msg := range raw.TimelineObjects {
		var obj TimelineObject
		if err := json.Unmarshal(msg, &obj); err != nil {
			doc.Malformed++
			continue
		}
		doc.TimelineObjects = append(doc.TimelineObjects, obj)
	}
	return doc, nil
}

// Encode renders timeline objects as a month file
func Encode(objs ...TimelineObject) ([]byte, error) {
	if objs == nil {
		objs = []TimelineObject{}
	}
	return json.Marshal(Document{TimelineObjects: objs})
}
