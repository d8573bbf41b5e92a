package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/quakemap/internal/domain"
)

// QuakeTransformer implements Transformer using the domain style mapper
// with optional place enrichment.
type QuakeTransformer struct {
	geocoder domain.Geocoder
	location *time.Location
	logger   *slog.Logger
}

// NewTransformer creates a QuakeTransformer. Pass a nil geocoder to disable
// place enrichment; popups render times in loc.
func NewTransformer(geocoder domain.Geocoder, loc *time.Location, logger *slog.Logger) *QuakeTransformer {
	return &QuakeTransformer{
		geocoder: geocoder,
		location: loc,
		logger:   logger,
	}
}

func (t *QuakeTransformer) Transform(ctx context.Context, f domain.Feature) (domain.Marker, error) {
	q, err := domain.ParseFeature(f)
	if err != nil {
		return domain.Marker{}, err
	}

	q = domain.EnrichPlace(ctx, q, t.geocoder, t.logger)

	return domain.BuildMarker(q, t.location), nil
}
