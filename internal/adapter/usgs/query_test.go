package usgs

import (
	"net/url"
	"testing"
	"time"

	"github.com/couchcryptid/quakemap/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultQuery() Query {
	return Query{
		Format:    FormatGeoJSON,
		StartTime: "2019-11-15",
		EndTime:   "2019-11-18",
		BBox: BBox{
			MinLongitude: -123.83789062,
			MaxLongitude: -69.52148437,
			MinLatitude:  25.16517337,
			MaxLatitude:  48.74894534,
		},
	}
}

func TestQuery_Encode(t *testing.T) {
	raw, err := defaultQuery().Encode(DefaultBaseURL)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "earthquake.usgs.gov", u.Host)
	assert.Equal(t, "/fdsnws/event/1/query", u.Path)

	params := u.Query()
	assert.Equal(t, "geojson", params.Get("format"))
	assert.Equal(t, "2019-11-15", params.Get("starttime"))
	assert.Equal(t, "2019-11-18", params.Get("endtime"))
	assert.Equal(t, "-123.83789062", params.Get("minlongitude"))
	assert.Equal(t, "-69.52148437", params.Get("maxlongitude"))
	assert.Equal(t, "25.16517337", params.Get("minlatitude"))
	assert.Equal(t, "48.74894534", params.Get("maxlatitude"))
}

func TestQuery_EncodeKeepsBaseParams(t *testing.T) {
	raw, err := defaultQuery().Encode("http://localhost:1234/query?eventtype=earthquake")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "earthquake", u.Query().Get("eventtype"))
	assert.Equal(t, "geojson", u.Query().Get("format"))
}

func TestQuery_EncodeRejectsInvalid(t *testing.T) {
	q := defaultQuery()
	q.Format = "csv"
	_, err := q.Encode(DefaultBaseURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *Query)
		wantErr string
	}{
		{"valid", func(*Query) {}, ""},
		{"same day", func(q *Query) { q.EndTime = q.StartTime }, ""},
		{"bad format", func(q *Query) { q.Format = "xml" }, "format"},
		{"bad start", func(q *Query) { q.StartTime = "15/11/2019" }, "starttime"},
		{"bad end", func(q *Query) { q.EndTime = "" }, "endtime"},
		{"end before start", func(q *Query) { q.EndTime = "2019-11-01" }, "before"},
		{"longitude out of range", func(q *Query) { q.BBox.MinLongitude = -190 }, "longitude"},
		{"latitude out of range", func(q *Query) { q.BBox.MaxLatitude = 91 }, "latitude"},
		{"inverted longitude", func(q *Query) { q.BBox.MinLongitude, q.BBox.MaxLongitude = 10, -10 }, "minlongitude"},
		{"empty latitude span", func(q *Query) { q.BBox.MinLatitude = q.BBox.MaxLatitude }, "minlatitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := defaultQuery()
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQuery_ValidateReportsAllProblems(t *testing.T) {
	q := Query{Format: "csv", StartTime: "x", EndTime: "y"}
	err := q.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
	assert.Contains(t, err.Error(), "starttime")
	assert.Contains(t, err.Error(), "endtime")
}

func TestQuery_Resolve(t *testing.T) {
	now := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC)

	t.Run("fixed dates untouched", func(t *testing.T) {
		q := defaultQuery()
		assert.Equal(t, q, q.Resolve(now))
	})

	t.Run("rolling window", func(t *testing.T) {
		q := defaultQuery()
		q.Window = 72 * time.Hour

		r := q.Resolve(now)
		assert.Equal(t, "2024-03-07", r.StartTime)
		assert.Equal(t, "2024-03-11", r.EndTime)
		assert.Zero(t, r.Window)
		require.NoError(t, r.Validate())
	})
}

func TestQueryFromConfig(t *testing.T) {
	cfg := &config.Config{
		FeedFormat:       "geojson",
		FeedStartTime:    "2019-11-15",
		FeedEndTime:      "2019-11-18",
		FeedWindow:       48 * time.Hour,
		FeedMinLongitude: -123.83789062,
		FeedMaxLongitude: -69.52148437,
		FeedMinLatitude:  25.16517337,
		FeedMaxLatitude:  48.74894534,
	}

	want := defaultQuery()
	want.Window = 48 * time.Hour
	assert.Equal(t, want, QueryFromConfig(cfg))
}
