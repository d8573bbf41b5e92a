package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// USGS feed query.
	FeedBaseURL      string
	FeedFormat       string
	FeedStartTime    string
	FeedEndTime      string
	FeedWindow       time.Duration // when > 0, overrides the fixed start/end dates
	FeedMinLongitude float64
	FeedMaxLongitude float64
	FeedMinLatitude  float64
	FeedMaxLatitude  float64
	FeedTimeout      time.Duration

	// Popup timestamps are rendered in this zone.
	DisplayLocation *time.Location

	// Mapbox access token: tile imagery in the browser and, optionally,
	// reverse geocoding of events without a place.
	MapboxToken            string
	MapboxGeocodingEnabled bool
	MapboxTimeout          time.Duration
	MapboxCacheSize        int

	// Optional Kafka sink for styled markers.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

var defaults = map[string]string{
	"HTTP_ADDR":                ":8080",
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "json",
	"SHUTDOWN_TIMEOUT":         "10s",
	"FEED_BASE_URL":            "https://earthquake.usgs.gov/fdsnws/event/1/query",
	"FEED_FORMAT":              "geojson",
	"FEED_START_TIME":          "2019-11-15",
	"FEED_END_TIME":            "2019-11-18",
	"FEED_WINDOW":              "",
	"FEED_MIN_LONGITUDE":       "-123.83789062",
	"FEED_MAX_LONGITUDE":       "-69.52148437",
	"FEED_MIN_LATITUDE":        "25.16517337",
	"FEED_MAX_LATITUDE":        "48.74894534",
	"FEED_TIMEOUT":             "10s",
	"DISPLAY_TIMEZONE":         "Local",
	"MAPBOX_TOKEN":             "",
	"MAPBOX_GEOCODING_ENABLED": "false",
	"MAPBOX_TIMEOUT":           "5s",
	"MAPBOX_CACHE_SIZE":        "1000",
	"KAFKA_ENABLED":            "false",
	"KAFKA_BROKERS":            "localhost:9092",
	"KAFKA_TOPIC":              "earthquake-markers",
}

// LoadDotEnv loads variables from an optional .env file without overriding
// ones already set in the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	p := parser{v: v}
	cfg := &Config{
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		ShutdownTimeout: p.positiveDuration("SHUTDOWN_TIMEOUT"),

		FeedBaseURL:      v.GetString("FEED_BASE_URL"),
		FeedFormat:       v.GetString("FEED_FORMAT"),
		FeedStartTime:    v.GetString("FEED_START_TIME"),
		FeedEndTime:      v.GetString("FEED_END_TIME"),
		FeedWindow:       p.optionalDuration("FEED_WINDOW"),
		FeedMinLongitude: p.float("FEED_MIN_LONGITUDE"),
		FeedMaxLongitude: p.float("FEED_MAX_LONGITUDE"),
		FeedMinLatitude:  p.float("FEED_MIN_LATITUDE"),
		FeedMaxLatitude:  p.float("FEED_MAX_LATITUDE"),
		FeedTimeout:      p.positiveDuration("FEED_TIMEOUT"),

		DisplayLocation: p.location("DISPLAY_TIMEZONE"),

		MapboxToken:            v.GetString("MAPBOX_TOKEN"),
		MapboxGeocodingEnabled: p.bool("MAPBOX_GEOCODING_ENABLED"),
		MapboxTimeout:          p.positiveDuration("MAPBOX_TIMEOUT"),
		MapboxCacheSize:        p.positiveInt("MAPBOX_CACHE_SIZE"),

		KafkaEnabled: p.bool("KAFKA_ENABLED"),
		KafkaBrokers: parseBrokers(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:   v.GetString("KAFKA_TOPIC"),
	}
	if p.err != nil {
		return nil, p.err
	}

	if cfg.FeedBaseURL == "" {
		return nil, errors.New("FEED_BASE_URL is required")
	}
	if cfg.MapboxGeocodingEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_GEOCODING_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

// parser reads typed values from viper and keeps the first error, which
// always names the offending variable.
type parser struct {
	v   *viper.Viper
	err error
}

func (p *parser) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %q", key, value)
	}
}

func (p *parser) positiveDuration(key string) time.Duration {
	s := p.v.GetString(key)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		p.fail(key, s)
		return 0
	}
	return d
}

func (p *parser) optionalDuration(key string) time.Duration {
	s := strings.TrimSpace(p.v.GetString(key))
	if s == "" {
		return 0
	}
	return p.positiveDuration(key)
}

func (p *parser) float(key string) float64 {
	s := p.v.GetString(key)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		p.fail(key, s)
		return 0
	}
	return f
}

func (p *parser) positiveInt(key string) int {
	s := p.v.GetString(key)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		p.fail(key, s)
		return 0
	}
	return n
}

func (p *parser) bool(key string) bool {
	s := p.v.GetString(key)
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		p.fail(key, s)
		return false
	}
	return b
}

func (p *parser) location(key string) *time.Location {
	s := p.v.GetString(key)
	loc, err := time.LoadLocation(s)
	if err != nil {
		p.fail(key, s)
		return nil
	}
	return loc
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
