package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quakemap/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quakemap/internal/adapter/kafka"
	"github.com/couchcryptid/quakemap/internal/adapter/mapbox"
	"github.com/couchcryptid/quakemap/internal/adapter/usgs"
	"github.com/couchcryptid/quakemap/internal/config"
	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/observability"
	"github.com/couchcryptid/quakemap/internal/pipeline"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	query := usgs.QueryFromConfig(cfg)
	if err := query.Validate(); err != nil {
		logger.Error("invalid feed query", "error", err)
		os.Exit(1)
	}
	fetcher := usgs.NewClient(cfg.FeedBaseURL, query, cfg.FeedTimeout, metrics, logger)

	if cfg.MapboxToken == "" {
		logger.Warn("MAPBOX_TOKEN is not set, base map tiles will not load")
	}

	// Place enrichment is feature-flagged via MAPBOX_GEOCODING_ENABLED.
	var geocoder domain.Geocoder
	if cfg.MapboxGeocodingEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var (
		sink   pipeline.MarkerSink
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, metrics, logger)
		sink = writer
		logger.Info("kafka marker sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	transformer := pipeline.NewTransformer(geocoder, cfg.DisplayLocation, logger)
	p := pipeline.New(fetcher, transformer, sink, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, httpadapter.DefaultMapConfig(cfg.MapboxToken), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
