package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	// ErrMissingMagnitude marks a feature whose mag property is null or absent.
	ErrMissingMagnitude    = errors.New("missing magnitude")
	// ErrInvalidGeometry marks a feature without a usable point geometry.
	ErrInvalidGeometry     = errors.New("invalid geometry")
	// ErrMagnitudeOutOfRange marks a magnitude too large to size a marker.
	ErrMagnitudeOutOfRange = errors.New("magnitude out of range")
)

// Place sources recorded on an Earthquake.
const (
	PlaceSourceFeed        = "feed"
	PlaceSourceGeocoded    = "geocoded"
	PlaceSourcePlaceholder = "placeholder"
)

// Earthquake is a parsed feed record that is safe to style and draw.
type Earthquake struct {
	ID          string     `json:"id,omitempty"`
	Place       string     `json:"place,omitempty"`
	PlaceSource string     `json:"place_source,omitempty"`
	Time        *time.Time `json:"time,omitempty"`
	Magnitude   float64    `json:"mag"`
	Lon         float64    `json:"lon"`
	Lat         float64    `json:"lat"`
	Depth       float64    `json:"depth"`
}

// ParseFeature validates a feed record and converts it into an Earthquake.
// Records without a magnitude, with a magnitude too large to size, or without
// a point geometry cannot be drawn and are rejected; a missing place or time is tolerated.
func ParseFeature(f Feature) (Earthquake, error) {
	if f.Properties.Mag == nil {
		return Earthquake{}, fmt.Errorf("parse feature %q: %w", f.ID, ErrMissingMagnitude)
	}
	if mag := *f.Properties.Mag; math.IsNaN(mag) || math.IsInf(mag*RadiusScale, 0) {
		return Earthquake{}, fmt.Errorf("parse feature %q: %w: %g", f.ID, ErrMagnitudeOutOfRange, mag)
	}
	if f.Geometry == nil || len(f.Geometry.Coordinates) < 2 {
		return Earthquake{}, fmt.Errorf("parse feature %q: %w", f.ID, ErrInvalidGeometry)
	}

	coords := f.Geometry.Coordinates
	lon, lat := coords[0], coords[1]
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return Earthquake{}, fmt.Errorf("parse feature %q: %w: lon=%g lat=%g", f.ID, ErrInvalidGeometry, lon, lat)
	}

	q := Earthquake{
		ID:        f.ID,
		Magnitude: *f.Properties.Mag,
		Lon:       lon,
		Lat:       lat,
	}
	if len(coords) > 2 {
		q.Depth = coords[2]
	}
	if f.Properties.Time != nil {
		t := time.UnixMilli(*f.Properties.Time).UTC()
		q.Time = &t
	}
	if p := f.Properties.Place; p != nil && strings.TrimSpace(*p) != "" {
		q.Place = strings.TrimSpace(*p)
		q.PlaceSource = PlaceSourceFeed
	}
	return q, nil
}
