package domain

// FeatureCollection is the GeoJSON document returned by the USGS event service.
type FeatureCollection struct {
	Type     string        `json:"type"`
	Metadata *FeedMetadata `json:"metadata,omitempty"`
	Features []Feature     `json:"features"`

	// RequestURL is the query URL that produced this collection.
	RequestURL string `json:"-"`
}

// FeedMetadata is the USGS "metadata" member of a FeatureCollection.
type FeedMetadata struct {
	Generated int64  `json:"generated"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	API       string `json:"api"`
	Count     int    `json:"count"`
}

// Feature is a single earthquake record.
type Feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id,omitempty"`
	Properties FeatureProperties `json:"properties"`
	Geometry   *Geometry         `json:"geometry"`
}

// FeatureProperties holds the subset of USGS properties the map consumes.
// Pointers distinguish a null or absent value from zero.
type FeatureProperties struct {
	Place *string  `json:"place"`
	Time  *int64   `json:"time"` // epoch milliseconds
	Mag   *float64 `json:"mag"`
	URL   string   `json:"url,omitempty"`
}

// Geometry is a GeoJSON Point: [longitude, latitude, depth].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}
