package usgs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
  "type": "FeatureCollection",
  "metadata": {"generated": 1574035200000, "title": "USGS Earthquakes", "status": 200, "count": 2},
  "features": [
    {"type": "Feature", "id": "ci39199615",
     "properties": {"mag": 1.12, "place": "7km SW of Searles Valley, CA", "time": 1573833600000},
     "geometry": {"type": "Point", "coordinates": [-117.45, 35.72, 4.9]}},
    {"type": "Feature", "id": "nc73305301",
     "properties": {"mag": null, "place": null, "time": 1573840000000},
     "geometry": {"type": "Point", "coordinates": [-122.8, 38.8, 1.2]}}
  ]
}`

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, defaultQuery(), timeout,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "geojson", r.URL.Query().Get("format"))
		assert.Equal(t, "2019-11-15", r.URL.Query().Get("starttime"))
		assert.Equal(t, "-69.52148437", r.URL.Query().Get("maxlongitude"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	fc, err := c.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, fc.Features, 2)
	assert.Equal(t, "ci39199615", fc.Features[0].ID)
	require.NotNil(t, fc.Features[0].Properties.Mag)
	assert.Equal(t, 1.12, *fc.Features[0].Properties.Mag)
	assert.Nil(t, fc.Features[1].Properties.Mag)
	assert.Nil(t, fc.Features[1].Properties.Place)
	require.NotNil(t, fc.Metadata)
	assert.Equal(t, 2, fc.Metadata.Count)
	assert.Contains(t, fc.RequestURL, srv.URL)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FeedRequests.WithLabelValues("success")))
}

func TestClient_Fetch_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	fc, err := testClient(srv.URL, 5*time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}

func TestClient_Fetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Error 400: Bad Request"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FeedRequests.WithLabelValues("error")))
}

func TestClient_Fetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 50*time.Millisecond).Fetch(context.Background())
	require.Error(t, err)
}

func TestClient_Fetch_InvalidQuery(t *testing.T) {
	c := testClient("http://127.0.0.1:0", time.Second)
	c.query.Format = "text"

	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query")
}

func TestClient_URL_RollingWindow(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	c := testClient(DefaultBaseURL, time.Second)
	c.query.Window = 24 * time.Hour

	u, err := c.URL()
	require.NoError(t, err)
	assert.Contains(t, u, "starttime=2024-03-09")
	assert.Contains(t, u, "endtime=2024-03-11")
}
