package http

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/couchcryptid/quakemap/internal/domain"
)

//go:embed assets
var assets embed.FS

var (
	staticFS  = mustSub(assets, "assets/static")
	indexTmpl = template.Must(template.ParseFS(assets, "assets/index.html.tmpl"))
)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Mapbox raster tiles served through the Static Tiles API.
const (
	MapboxTileURL     = "https://api.mapbox.com/styles/v1/{id}/tiles/{z}/{x}/{y}?access_token={accessToken}"
	MapboxAttribution = `Map data &copy; <a href="https://www.openstreetmap.org/">OpenStreetMap</a> contributors, ` +
		`<a href="https://creativecommons.org/licenses/by-sa/2.0/">CC-BY-SA</a>, ` +
		`Imagery &copy; <a href="https://www.mapbox.com/">Mapbox</a>`
)

// BaseLayer is one switchable background tile layer.
type BaseLayer struct {
	Name    string `json:"name"`
	StyleID string `json:"styleId"`
	MaxZoom int    `json:"maxZoom"`
}

// MapConfig holds every parameter the page script needs to build the map.
// It is rendered into the page as JSON.
type MapConfig struct {
	AccessToken        string      `json:"accessToken"`
	TileURL            string      `json:"tileUrl"`
	Attribution        string      `json:"attribution"`
	BaseLayers         []BaseLayer `json:"baseLayers"`
	DefaultBaseLayer   string      `json:"defaultBaseLayer"`
	OverlayName        string      `json:"overlayName"`
	Center             [2]float64  `json:"center"`
	Zoom               int         `json:"zoom"`
	CollapsedControl   bool        `json:"collapsedControl"`
	LegendPosition     string      `json:"legendPosition"`
	NorthArrowPosition string      `json:"northArrowPosition"`
	DataURL            string      `json:"dataUrl"`
}

// DefaultMapConfig returns the continental-US view with street and light
// base layers.
func DefaultMapConfig(accessToken string) MapConfig {
	return MapConfig{
		AccessToken: accessToken,
		TileURL:     MapboxTileURL,
		Attribution: MapboxAttribution,
		BaseLayers: []BaseLayer{
			{Name: "Street Map", StyleID: "mapbox/streets-v11", MaxZoom: 18},
			{Name: "Light Map", StyleID: "mapbox/light-v10", MaxZoom: 18},
		},
		DefaultBaseLayer:   "Light Map",
		OverlayName:        "Earthquakes",
		Center:             [2]float64{38.09, -95.71},
		Zoom:               5,
		CollapsedControl:   true,
		LegendPosition:     "bottomright",
		NorthArrowPosition: "bottomleft",
		DataURL:            "/api/earthquakes",
	}
}

type indexData struct {
	Config      MapConfig
	LegendTitle string
	Legend      []domain.LegendRow
}

type legendResponse struct {
	Title string             `json:"title"`
	Rows  []domain.LegendRow `json:"rows"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, indexData{
		Config:      s.page,
		LegendTitle: domain.LegendTitle,
		Legend:      domain.BuildLegend(),
	})
	if err != nil {
		s.logger.Error("render index", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleEarthquakes(w http.ResponseWriter, r *http.Request) {
	snap, err := s.runner.Run(r.Context())
	if err != nil {
		s.logger.Error("earthquake layer unavailable", "error", err)
		s.writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":  "earthquake feed unavailable",
			"detail": err.Error(),
		})
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	s.writeJSON(w, http.StatusOK, snap.FeatureCollection())
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, legendResponse{
		Title: domain.LegendTitle,
		Rows:  domain.BuildLegend(),
	})
}
