// Package domain models USGS earthquake events and the visual encoding used to
// draw them on the map.
//
// # Data Source
//
// Events come from the USGS FDSN event web service
// (https://earthquake.usgs.gov/fdsnws/event/1/), queried with format=geojson.
// The response is a GeoJSON FeatureCollection; each Feature is one event.
//
// # USGS Feed Conventions
//
// Properties read by this package:
//
//	place  free text, e.g. "12km SSW of Idyllwild, CA". May be null.
//	time   origin time in epoch milliseconds (UTC). May be null.
//	mag    magnitude as a float. Negative and zero values are legal for
//	       micro-events; null appears in malformed or preliminary records.
//
// Geometry is a Point whose coordinates are [longitude, latitude, depth_km].
//
// # Magnitude Bands
//
// Magnitudes are bucketed into five contiguous bands with ascending strict
// upper bounds. A value equal to a boundary belongs to the higher band:
//
//	  m < 1       #DAF7A6   "0–1"
//	  1 ≤ m < 2   #FFC300   "1–2"
//	  2 ≤ m < 3   #FF5733   "2–3"
//	  3 ≤ m < 4   #FA0505   "3–4"
//	  m ≥ 4       #900C3F   "4+"
//
// NaN and negative magnitudes fall in the lowest band. Marker colors and
// legend rows are both derived from [ClassifyMagnitude] and [Bands].
//
// # Marker Radius
//
// Circle radius in meters is magnitude × 20000. Negative and non-finite
// magnitudes produce a radius of zero. See [Radius].
package domain
