package usgs

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/quakemap/internal/config"
)

// DateLayout is the date format accepted by the FDSN starttime/endtime parameters.
const DateLayout = "2006-01-02"

// FormatGeoJSON is the only response format the client can decode.
const FormatGeoJSON = "geojson"

// BBox bounds the query in degrees.
type BBox struct {
	MinLongitude float64
	MaxLongitude float64
	MinLatitude  float64
	MaxLatitude  float64
}

// Query describes one FDSN event search.
type Query struct {
	Format    string
	StartTime string // YYYY-MM-DD
	EndTime   string // YYYY-MM-DD
	// Window, when positive, replaces StartTime/EndTime with a rolling
	// range ending today (see Resolve).
	Window time.Duration
	BBox   BBox
}

// Resolve fixes a rolling window against now. The end date is the day after
// now so that events from today are included.
func (q Query) Resolve(now time.Time) Query {
	if q.Window <= 0 {
		return q
	}
	now = now.UTC()
	q.StartTime = now.Add(-q.Window).Format(DateLayout)
	q.EndTime = now.AddDate(0, 0, 1).Format(DateLayout)
	q.Window = 0
	return q
}

// Validate reports every problem with the query parameters.
func (q Query) Validate() error {
	var errs []error

	if q.Format != FormatGeoJSON {
		errs = append(errs, fmt.Errorf("format must be %q, got %q", FormatGeoJSON, q.Format))
	}

	start, startErr := time.Parse(DateLayout, q.StartTime)
	if startErr != nil {
		errs = append(errs, fmt.Errorf("starttime %q is not a %s date", q.StartTime, DateLayout))
	}
	end, endErr := time.Parse(DateLayout, q.EndTime)
	if endErr != nil {
		errs = append(errs, fmt.Errorf("endtime %q is not a %s date", q.EndTime, DateLayout))
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		errs = append(errs, fmt.Errorf("endtime %s is before starttime %s", q.EndTime, q.StartTime))
	}

	b := q.BBox
	if b.MinLongitude < -180 || b.MaxLongitude > 180 {
		errs = append(errs, fmt.Errorf("longitude bounds [%g, %g] outside [-180, 180]", b.MinLongitude, b.MaxLongitude))
	}
	if b.MinLatitude < -90 || b.MaxLatitude > 90 {
		errs = append(errs, fmt.Errorf("latitude bounds [%g, %g] outside [-90, 90]", b.MinLatitude, b.MaxLatitude))
	}
	if b.MinLongitude >= b.MaxLongitude {
		errs = append(errs, fmt.Errorf("minlongitude %g must be less than maxlongitude %g", b.MinLongitude, b.MaxLongitude))
	}
	if b.MinLatitude >= b.MaxLatitude {
		errs = append(errs, fmt.Errorf("minlatitude %g must be less than maxlatitude %g", b.MinLatitude, b.MaxLatitude))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid query: %w", errors.Join(errs...))
	}
	return nil
}

// Encode validates the query and serializes it onto baseURL.
func (q Query) Encode(baseURL string) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	params := u.Query()
	params.Set("format", q.Format)
	params.Set("starttime", q.StartTime)
	params.Set("endtime", q.EndTime)
	params.Set("minlongitude", formatDegrees(q.BBox.MinLongitude))
	params.Set("maxlongitude", formatDegrees(q.BBox.MaxLongitude))
	params.Set("minlatitude", formatDegrees(q.BBox.MinLatitude))
	params.Set("maxlatitude", formatDegrees(q.BBox.MaxLatitude))
	u.RawQuery = params.Encode()

	return u.String(), nil
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// QueryFromConfig builds the feed query from service settings.
func QueryFromConfig(cfg *config.Config) Query {
	return Query{
		Format:    cfg.FeedFormat,
		StartTime: cfg.FeedStartTime,
		EndTime:   cfg.FeedEndTime,
		Window:    cfg.FeedWindow,
		BBox: BBox{
			MinLongitude: cfg.FeedMinLongitude,
			MaxLongitude: cfg.FeedMaxLongitude,
			MinLatitude:  cfg.FeedMinLatitude,
			MaxLatitude:  cfg.FeedMaxLatitude,
		},
	}
}
