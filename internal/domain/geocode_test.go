package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestEnrichPlace_KeepsFeedPlace(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{FormattedAddress: "ignored"}}
	q := Earthquake{ID: "evt-1", Place: "3km W of Cobb, CA", PlaceSource: PlaceSourceFeed}

	result := EnrichPlace(context.Background(), q, geo, discardLogger())

	assert.Equal(t, "3km W of Cobb, CA", result.Place)
	assert.Equal(t, PlaceSourceFeed, result.PlaceSource)
	assert.Equal(t, 0, geo.calls)
}

func TestEnrichPlace_NilGeocoder(t *testing.T) {
	q := Earthquake{ID: "evt-2", Lat: 36.1, Lon: -117.8}

	result := EnrichPlace(context.Background(), q, nil, discardLogger())

	assert.Empty(t, result.Place)
	assert.Equal(t, PlaceSourcePlaceholder, result.PlaceSource)
}

func TestEnrichPlace_ReverseGeocode(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{
		FormattedAddress: "Ridgecrest, California, United States",
		PlaceName:        "Ridgecrest",
		Confidence:       0.9,
	}}
	q := Earthquake{ID: "evt-3", Lat: 35.62, Lon: -117.67}

	result := EnrichPlace(context.Background(), q, geo, discardLogger())

	assert.Equal(t, "Ridgecrest, California, United States", result.Place)
	assert.Equal(t, PlaceSourceGeocoded, result.PlaceSource)
	assert.Equal(t, 1, geo.calls)
}

func TestEnrichPlace_Error_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("rate limited")}
	q := Earthquake{ID: "evt-4", Lat: 35.62, Lon: -117.67}

	result := EnrichPlace(context.Background(), q, geo, discardLogger())

	assert.Empty(t, result.Place)
	assert.Equal(t, PlaceSourcePlaceholder, result.PlaceSource)
	assert.Equal(t, 35.62, result.Lat) // coordinates preserved
}

func TestEnrichPlace_EmptyResult(t *testing.T) {
	geo := &mockGeocoder{}
	q := Earthquake{ID: "evt-5", Lat: 0.5, Lon: -150}

	result := EnrichPlace(context.Background(), q, geo, discardLogger())

	assert.Equal(t, PlaceSourcePlaceholder, result.PlaceSource)
	assert.Equal(t, 1, geo.calls)
}
