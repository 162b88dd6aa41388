package takeout

import (
	"strconv"
	"time"
)

// ToLocation converts one timeline object, false when it carries no usable
// coordinates or timestamp
func ToLocation(obj TimelineObject) (Location, bool) {
	switch {
	case obj.PlaceVisit != nil:
		return placeVisit(*obj.PlaceVisit)
	case obj.ActivitySegment != nil:
		return activitySegment(*obj.ActivitySegment)
	default:
		return Location{}, false
	}
}

// Locations converts every usable object of doc in order and reports how many were skipped
func Locations(doc Document) (out []Location, skipped int) {
	out = make([]Location, 0, len(doc.TimelineObjects))
	for _, obj := range doc.TimelineObjects {
		loc, ok := ToLocation(obj)
		if !ok {
			skipped++
			continue
		}
		out = append(out, loc)
	}
	return out, skipped + doc.Malformed
}

func placeVisit(v PlaceVisit) (Location, bool) {
	start, ok := v.Duration.Start()
	if !ok {
		return Location{}, false
	}
	loc := Location{Time: start, Source: SourcePlaceVisit}
	switch {
	case v.Location != nil && v.Location.LatitudeE7 != nil && v.Location.LongitudeE7 != nil:
		loc.Latitude = FromE7(*v.Location.LatitudeE7)
		loc.Longitude = FromE7(*v.Location.LongitudeE7)
	case v.CenterLatE7 != nil && v.CenterLngE7 != nil:
		loc.Latitude = FromE7(*v.CenterLatE7)
		loc.Longitude = FromE7(*v.CenterLngE7)
	default:
		return Location{}, false
	}
	if v.Location != nil {
		loc.PlaceID = v.Location.PlaceID
		loc.Name = normalizeName(v.Location.Name)
	}
	return loc, loc.Valid()
}

func activitySegment(s ActivitySegment) (Location, bool) {
	start, ok := s.Duration.Start()
	p := s.StartLocation
	if !ok || p == nil || p.LatitudeE7 == nil || p.LongitudeE7 == nil {
		return Location{}, false
	}
	loc := Location{
		Latitude:  FromE7(*p.LatitudeE7),
		Longitude: FromE7(*p.LongitudeE7),
		Time:      start,
		Source:    SourceActivitySegment,
	}
	return loc, loc.Valid()
}

// MakeTimelineObject builds the placeVisit entry that converts back to l
func MakeTimelineObject(l Location) TimelineObject {
	lat, lng := E7(l.Latitude), E7(l.Longitude)
	return TimelineObject{PlaceVisit: &PlaceVisit{
		Location: &Place{
			LatitudeE7:  &lat,
			LongitudeE7: &lng,
			PlaceID:     l.PlaceID,
			Name:        l.Name,
		},
		Duration: Duration{
			StartTimestampMs: formatMs(l.Time),
		},
	}}
}

func formatMs(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
