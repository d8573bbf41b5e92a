// Command quakesnap runs the feed pipeline once and writes the styled
// GeoJSON FeatureCollection to a file or stdout. It reads the same
// environment as the service, so it can be used to capture fixtures or to
// check a query before deploying it.
//
// Usage:
//
//	go run ./cmd/quakesnap -out markers.geojson
//	FEED_WINDOW=72h go run ./cmd/quakesnap -indent
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quakemap/internal/adapter/mapbox"
	"github.com/couchcryptid/quakemap/internal/adapter/usgs"
	"github.com/couchcryptid/quakemap/internal/config"
	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/observability"
	"github.com/couchcryptid/quakemap/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path (default stdout)")
	indent := flag.Bool("indent", false, "pretty-print the output")
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout stays clean GeoJSON.
	logger := observability.NewLoggerTo(os.Stderr, cfg.LogLevel, "text")
	metrics := observability.NewMetricsForTesting()

	query := usgs.QueryFromConfig(cfg)
	if err := query.Validate(); err != nil {
		return err
	}
	fetcher := usgs.NewClient(cfg.FeedBaseURL, query, cfg.FeedTimeout, metrics, logger)

	var geocoder domain.Geocoder
	if cfg.MapboxGeocodingEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
	}

	transformer := pipeline.NewTransformer(geocoder, cfg.DisplayLocation, logger)
	p := pipeline.New(fetcher, transformer, nil, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snap, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if err := writeSnapshot(*out, snap, *indent); err != nil {
		return err
	}
	logger.Info("snapshot written", "markers", len(snap.Markers), "skipped", snap.Skipped, "out", *out)
	return nil
}

// writeSnapshot writes to path, or to stdout when path is empty. The file is
// closed before returning so a failed flush is reported.
func writeSnapshot(path string, snap domain.Snapshot, indent bool) error {
	if path == "" {
		return writeCollection(os.Stdout, snap, indent)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeCollection(f, snap, indent); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func writeCollection(w io.Writer, snap domain.Snapshot, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(snap.FeatureCollection()); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
