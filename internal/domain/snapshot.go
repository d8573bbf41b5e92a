package domain

import "time"

// Snapshot is the result of one fetch-and-style pass.
type Snapshot struct {
	QueryURL  string
	FetchedAt time.Time
	Markers   []Marker
	Legend    []LegendRow
	Skipped   int
}

// MarkerCollection is a GeoJSON FeatureCollection of styled markers.
type MarkerCollection struct {
	Type     string           `json:"type"`
	Metadata SnapshotMetadata `json:"metadata"`
	Features []MarkerFeature  `json:"features"`
}

// SnapshotMetadata describes where and when the markers were produced.
type SnapshotMetadata struct {
	Generated time.Time   `json:"generated"`
	Query     string      `json:"query,omitempty"`
	Count     int         `json:"count"`
	Skipped   int         `json:"skipped"`
	Legend    []LegendRow `json:"legend"`
}

// MarkerFeature is a GeoJSON Feature whose properties carry the style.
type MarkerFeature struct {
	Type       string   `json:"type"`
	ID         string   `json:"id,omitempty"`
	Geometry   Geometry `json:"geometry"`
	Properties Marker   `json:"properties"`
}

// FeatureCollection renders the snapshot as GeoJSON. Features is never nil
// so an empty snapshot encodes as an empty array.
func (s Snapshot) FeatureCollection() MarkerCollection {
	features := make([]MarkerFeature, 0, len(s.Markers))
	for _, m := range s.Markers {
		features = append(features, MarkerFeature{
			Type: "Feature",
			ID:   m.ID,
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{m.Lon, m.Lat, m.Depth},
			},
			Properties: m,
		})
	}
	legend := s.Legend
	if legend == nil {
		legend = []LegendRow{}
	}
	return MarkerCollection{
		Type: "FeatureCollection",
		Metadata: SnapshotMetadata{
			Generated: s.FetchedAt.UTC(),
			Query:     s.QueryURL,
			Count:     len(features),
			Skipped:   s.Skipped,
			Legend:    legend,
		},
		Features: features,
	}
}
