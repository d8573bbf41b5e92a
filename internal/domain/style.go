package domain

import (
	"html"
	"math"
	"strconv"
	"time"
)

// Fixed marker styling.
const (
	RadiusScale  = 20000.0 // meters per unit of magnitude
	StrokeColor  = "black"
	StrokeWeight = 0.5
	FillOpacity  = 0.6
)

const (
	popupTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
	unknownPlace    = "Unknown location"
	unknownTime     = "Unknown time"
)

// Style is the circle styling consumed by the map's rendering hook.
type Style struct {
	Radius      float64 `json:"radius"`
	FillColor   string  `json:"fillColor"`
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

// Marker is an earthquake together with everything needed to draw it.
type Marker struct {
	Earthquake
	Band  MagnitudeBand `json:"band"`
	Style Style         `json:"style"`
	Popup string        `json:"popup"`
}

// Radius scales magnitude linearly to a circle radius in meters.
// Negative, NaN and infinite magnitudes yield 0, as do magnitudes whose
// radius overflows float64.
func Radius(m float64) float64 {
	if math.IsNaN(m) || m < 0 {
		return 0
	}
	r := m * RadiusScale
	if math.IsInf(r, 0) {
		return 0
	}
	return r
}

// StyleFor computes the circle style for a magnitude.
func StyleFor(m float64) Style {
	return Style{
		Radius:      Radius(m),
		FillColor:   ColorFor(m),
		Color:       StrokeColor,
		Weight:      StrokeWeight,
		FillOpacity: FillOpacity,
	}
}

// PopupHTML renders the popup body for an event. The place is HTML-escaped;
// the magnitude is printed verbatim without rounding. A nil loc means the
// process-local zone.
func PopupHTML(place string, t *time.Time, mag float64, loc *time.Location) string {
	if place == "" {
		place = unknownPlace
	}
	when := unknownTime
	if t != nil {
		if loc == nil {
			loc = time.Local
		}
		when = t.In(loc).Format(popupTimeLayout)
	}
	return "<h3>" + html.EscapeString(place) + "</h3><hr><p>" +
		when + ", Magnitude: " + formatMagnitude(mag) + "</p>"
}

func formatMagnitude(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// BuildMarker styles a parsed earthquake.
func BuildMarker(q Earthquake, loc *time.Location) Marker {
	return Marker{
		Earthquake: q,
		Band:       ClassifyMagnitude(q.Magnitude),
		Style:      StyleFor(q.Magnitude),
		Popup:      PopupHTML(q.Place, q.Time, q.Magnitude, loc),
	}
}
