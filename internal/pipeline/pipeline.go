package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/observability"
)

// Fetcher retrieves the earthquake feed.
type Fetcher interface {
	Fetch(ctx context.Context) (domain.FeatureCollection, error)
}

// Transformer converts a feed record into a styled marker.
type Transformer interface {
	Transform(ctx context.Context, f domain.Feature) (domain.Marker, error)
}

// MarkerSink receives the markers of every successful pass.
type MarkerSink interface {
	Publish(ctx context.Context, markers []domain.Marker) error
}

// Pipeline runs one fetch-and-style pass per call. It holds no per-run state,
// so Run is safe to call from concurrent requests.
type Pipeline struct {
	fetcher     Fetcher
	transformer Transformer
	sink        MarkerSink
	logger      *slog.Logger
	metrics     *observability.Metrics

	mu      sync.Mutex
	lastErr error
}

// New creates a Pipeline. sink may be nil.
func New(f Fetcher, t Transformer, sink MarkerSink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:     f,
		transformer: t,
		sink:        sink,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness reports the error of the most recent fetch, or nil if the
// last fetch succeeded or none has run yet.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastErr != nil {
		return fmt.Errorf("last feed fetch failed: %w", p.lastErr)
	}
	return nil
}

func (p *Pipeline) setLastErr(err error) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
}

// Run fetches the feed once and styles every drawable feature. Features that
// cannot be drawn are logged and skipped. An empty feed yields a snapshot
// with no markers.
func (p *Pipeline) Run(ctx context.Context) (domain.Snapshot, error) {
	start := time.Now()

	fc, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.setLastErr(err)
		p.logger.Error("feed fetch failed", "error", err)
		return domain.Snapshot{}, fmt.Errorf("fetch earthquakes: %w", err)
	}
	p.setLastErr(nil)

	markers := make([]domain.Marker, 0, len(fc.Features))
	skipped := 0
	for _, f := range fc.Features {
		m, err := p.transformer.Transform(ctx, f)
		if err != nil {
			skipped++
			p.logger.Warn("feature skipped", "event_id", f.ID, "error", err)
			p.metrics.FeaturesSkipped.WithLabelValues(skipReason(err)).Inc()
			continue
		}
		p.metrics.MarkersBuilt.WithLabelValues(m.Band.String()).Inc()
		markers = append(markers, m)
	}

	if p.sink != nil && len(markers) > 0 {
		if err := p.sink.Publish(ctx, markers); err != nil {
			p.logger.Error("publish markers failed", "error", err, "count", len(markers))
		}
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("feed styled",
		"features", len(fc.Features),
		"markers", len(markers),
		"skipped", skipped,
	)

	return domain.Snapshot{
		QueryURL:  fc.RequestURL,
		FetchedAt: domain.Now(),
		Markers:   markers,
		Legend:    domain.BuildLegend(),
		Skipped:   skipped,
	}, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingMagnitude):
		return "missing_magnitude"
	case errors.Is(err, domain.ErrInvalidGeometry):
		return "invalid_geometry"
	case errors.Is(err, domain.ErrMagnitudeOutOfRange):
		return "magnitude_out_of_range"
	default:
		return "other"
	}
}
