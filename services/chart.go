package services

import "encoding/json"

// BarFigure ist eine Plotly-Figur mit einer einzelnen Balken-Serie.
// Das Frontend übergibt Data und Layout direkt an Plotly.newPlot.
type BarFigure struct {
	Data   []BarTrace `json:"data"`
	Layout Layout     `json:"layout"`
}

// BarTrace ist eine Balken-Serie.
type BarTrace struct {
	Type string   `json:"type"`
	X    []string `json:"x"`
	Y    []int    `json:"y"`
}

type Layout struct {
	Title string `json:"title"`
	XAxis Axis   `json:"xaxis"`
	YAxis Axis   `json:"yaxis"`
}

type Axis struct {
	Title string `json:"title"`
}

// ArtistsChart baut das Balkendiagramm der häufigsten Künstler.
func ArtistsChart(top []Count) BarFigure {
	trace := BarTrace{Type: "bar", X: make([]string, 0, len(top)), Y: make([]int, 0, len(top))}
	for _, c := range top {
		trace.X = append(trace.X, c.Name)
		trace.Y = append(trace.Y, c.Count)
	}
	return BarFigure{
		Data: []BarTrace{trace},
		Layout: Layout{
			Title: "Top 10 des artistes",
			XAxis: Axis{Title: "Artiste"},
			YAxis: Axis{Title: "Nombre d'œuvres"},
		},
	}
}

// JSON serialisiert die Figur für das Template.
func (f BarFigure) JSON() (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
