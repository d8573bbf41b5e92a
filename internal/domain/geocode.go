package domain

import (
	"context"
	"log/slog"
)

// EnrichPlace fills in a missing place name by reverse geocoding the event's
// coordinates. Events that already carry a place are returned unchanged. If
// geocoder is nil or the lookup fails or comes back empty, the event is
// marked with a placeholder source and the popup shows a generic label.
func EnrichPlace(ctx context.Context, q Earthquake, geocoder Geocoder, logger *slog.Logger) Earthquake {
	if q.Place != "" {
		return q
	}
	q.PlaceSource = PlaceSourcePlaceholder
	if geocoder == nil {
		return q
	}

	result, err := geocoder.ReverseGeocode(ctx, q.Lat, q.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"event_id", q.ID,
			"lat", q.Lat,
			"lon", q.Lon,
			"error", err,
		)
		return q
	}
	if result.FormattedAddress == "" {
		return q
	}

	q.Place = result.FormattedAddress
	q.PlaceSource = PlaceSourceGeocoded
	return q
}
