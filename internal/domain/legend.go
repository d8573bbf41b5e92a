package domain

// LegendTitle heads the legend control.
const LegendTitle = "Magnitudes"

// LegendRow is one swatch in the map legend.
type LegendRow struct {
	Band  MagnitudeBand `json:"band"`
	Label string        `json:"label"`
	Color string        `json:"color"`
}

// BuildLegend returns one row per band in ascending order.
func BuildLegend() []LegendRow {
	bands := Bands()
	rows := make([]LegendRow, 0, len(bands))
	for _, b := range bands {
		rows = append(rows, LegendRow{Band: b, Label: b.Label(), Color: b.Color()})
	}
	return rows
}
