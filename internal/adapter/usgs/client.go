package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/observability"
)

// DefaultBaseURL is the FDSN event query endpoint.
const DefaultBaseURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"

// StatusError is returned when the feed answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("usgs API error: status %d: %s", e.StatusCode, e.Body)
}

// Client fetches earthquake events from the USGS FDSN event service.
// It implements pipeline.Fetcher.
type Client struct {
	baseURL    string
	query      Query
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client for a fixed query.
func NewClient(baseURL string, query Query, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		query:   query,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// URL returns the request URL for the query as of now.
func (c *Client) URL() (string, error) {
	return c.query.Resolve(domain.Now()).Encode(c.baseURL)
}

// Fetch performs one GET against the feed and decodes the FeatureCollection.
func (c *Client) Fetch(ctx context.Context) (domain.FeatureCollection, error) {
	fullURL, err := c.URL()
	if err != nil {
		return domain.FeatureCollection{}, err
	}

	start := time.Now()
	fc, err := c.doRequest(ctx, fullURL)
	c.metrics.FeedDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues("error").Inc()
		return domain.FeatureCollection{}, err
	}
	c.metrics.FeedRequests.WithLabelValues("success").Inc()

	c.logger.Debug("feed fetched", "url", fullURL, "features", len(fc.Features))
	fc.RequestURL = fullURL
	return fc, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.FeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.FeatureCollection{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	// FDSN services answer 204 when the query matches nothing.
	if resp.StatusCode == http.StatusNoContent {
		return domain.FeatureCollection{Type: "FeatureCollection"}, nil
	}

	var fc domain.FeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("decode response: %w", err)
	}
	return fc, nil
}
