package domain

import (
	"fmt"
	"math"
)

// MagnitudeBand is one of five fixed magnitude ranges used for color coding.
type MagnitudeBand int

const (
	BandUnder1 MagnitudeBand = iota // m < 1
	Band1To2                        // 1 ≤ m < 2
	Band2To3                        // 2 ≤ m < 3
	Band3To4                        // 3 ≤ m < 4
	Band4Plus                       // m ≥ 4
)

type bandInfo struct {
	name  string
	label string
	color string
}

var bandTable = [...]bandInfo{
	BandUnder1: {name: "under-1", label: "0–1", color: "#DAF7A6"},
	Band1To2:   {name: "1-2", label: "1–2", color: "#FFC300"},
	Band2To3:   {name: "2-3", label: "2–3", color: "#FF5733"},
	Band3To4:   {name: "3-4", label: "3–4", color: "#FA0505"},
	Band4Plus:  {name: "4-plus", label: "4+", color: "#900C3F"},
}

// ClassifyMagnitude maps a magnitude to its band. Thresholds are compared
// with strict < in ascending order, so boundary values land in the higher
// band. NaN and negative values fall in the lowest band.
func ClassifyMagnitude(m float64) MagnitudeBand {
	switch {
	case math.IsNaN(m) || m < 1:
		return BandUnder1
	case m < 2:
		return Band1To2
	case m < 3:
		return Band2To3
	case m < 4:
		return Band3To4
	default:
		return Band4Plus
	}
}

// ColorFor returns the fill color for a magnitude.
func ColorFor(m float64) string {
	return ClassifyMagnitude(m).Color()
}

// Bands returns every band in ascending magnitude order.
func Bands() []MagnitudeBand {
	return []MagnitudeBand{BandUnder1, Band1To2, Band2To3, Band3To4, Band4Plus}
}

// Valid reports whether b is one of the five defined bands.
func (b MagnitudeBand) Valid() bool {
	return b >= BandUnder1 && b <= Band4Plus
}

// Color returns the hex fill color token for the band.
func (b MagnitudeBand) Color() string {
	if !b.Valid() {
		return ""
	}
	return bandTable[b].color
}

// Label returns the human-readable legend label, e.g. "2–3" or "4+".
func (b MagnitudeBand) Label() string {
	if !b.Valid() {
		return ""
	}
	return bandTable[b].label
}

// String returns a stable ASCII identifier used in JSON and metric labels.
func (b MagnitudeBand) String() string {
	if !b.Valid() {
		return fmt.Sprintf("MagnitudeBand(%d)", int(b))
	}
	return bandTable[b].name
}

func (b MagnitudeBand) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid magnitude band %d", int(b))
	}
	return []byte(b.String()), nil
}

func (b *MagnitudeBand) UnmarshalText(text []byte) error {
	for _, candidate := range Bands() {
		if candidate.String() == string(text) {
			*b = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown magnitude band %q", text)
}
